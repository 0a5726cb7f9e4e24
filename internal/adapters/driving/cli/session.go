package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

// Session menu choices.
const (
	choiceChange   = 1
	choiceValidate = 2
	choiceView     = 3
	choiceSave     = 4
	choiceExit     = 5
)

// runSession drives the account menu until Exit is chosen or input ends.
// The account is logged out on return.
func runSession(ctx context.Context, p *prompter, account driving.Account) error {
	defer func() {
		account.Logout()
		p.cmd.Println()
		p.cmd.Printf("Account with Username %q logged out.\n", account.Username())
		p.cmd.Println("Thank you!")
	}()

	p.cmd.Println()
	p.cmd.Printf("Password Manager - Welcome %s!\n", account.Username())

	for {
		p.cmd.Println()
		p.cmd.Println("1. Change Password")
		p.cmd.Println("2. Validate Password")
		p.cmd.Println("3. View Password")
		p.cmd.Println("4. Save to File")
		p.cmd.Println("5. Exit")
		p.cmd.Println("--------------------------------------------------")

		choice, err := p.readChoice("Enter your choice: ")
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case choiceChange:
			if err := sessionChange(ctx, p, account); err != nil {
				return err
			}
		case choiceValidate:
			if err := sessionValidate(p, account); err != nil {
				return err
			}
		case choiceView:
			printPasswords(p.cmd, account)
		case choiceSave:
			if err := account.Persist(ctx); err != nil {
				p.cmd.Printf("Failed to save: %v\n", err)
			} else {
				p.cmd.Println("Data saved to file successfully.")
			}
		case choiceExit:
			p.cmd.Println("Logging out...")
			return nil
		default:
			p.cmd.Println("Invalid choice. Try again.")
		}
	}
}

// sessionChange reports policy and store failures without ending the session.
func sessionChange(ctx context.Context, p *prompter, account driving.Account) error {
	candidate, err := p.readSecret("Enter new password - ")
	if err != nil {
		return ignoreClosed(err)
	}

	err = account.ChangePassword(ctx, candidate)
	var violation *domain.PolicyViolation
	switch {
	case err == nil:
		p.cmd.Println("Password changed successfully.")
	case errors.As(err, &violation):
		printPolicyFailures(p.cmd, violation.Rules)
		p.cmd.Println("Password not changed.")
	case errors.Is(err, domain.ErrUnstorable):
		p.cmd.Println(domain.UnstorableDescription)
		p.cmd.Println("Password not changed.")
	case errors.Is(err, domain.ErrNotFound):
		p.cmd.Println("Username not found while updating.")
		p.cmd.Println("Password not changed.")
	default:
		p.cmd.Printf("Password not changed: %v\n", err)
	}
	return nil
}

func sessionValidate(p *prompter, account driving.Account) error {
	candidate, err := p.readSecret("Enter password to validate - ")
	if err != nil {
		return ignoreClosed(err)
	}

	p.cmd.Printf("Password Strength: %s\n", domain.PasswordStrength(candidate))
	if account.Authenticate(candidate) {
		p.cmd.Println("Correct Password")
	} else {
		p.cmd.Println("Incorrect Password")
	}
	return nil
}

// ignoreClosed turns end of input into a no-op; the menu prompt then sees
// the closed input and ends the session.
func ignoreClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
