package domain

// AccountState is the lifecycle state of an in-memory account handle.
type AccountState int

// Account states. Anonymous is the state of a freshly loaded account.
const (
	AccountAnonymous AccountState = iota
	AccountAuthenticated
	AccountLoggedOut
)

// String returns the state name.
func (s AccountState) String() string {
	switch s {
	case AccountAnonymous:
		return "anonymous"
	case AccountAuthenticated:
		return "authenticated"
	case AccountLoggedOut:
		return "logged_out"
	default:
		return unknownDescription
	}
}
