package driven

import (
	"context"
	"time"
)

// StoreChangeOp describes what happened to the backing record file.
type StoreChangeOp string

// Store change operations.
const (
	StoreChangeWrite   StoreChangeOp = "write"
	StoreChangeCreate  StoreChangeOp = "create"
	StoreChangeRemove  StoreChangeOp = "remove"
	StoreChangeReplace StoreChangeOp = "replace"
)

// StoreChange is a notification that the record file changed on disk.
type StoreChange struct {
	Path string
	Op   StoreChangeOp
	At   time.Time
}

// StoreWatcher reports changes made to the record file, including those made
// by other processes. It is optional; callers must tolerate a nil watcher.
type StoreWatcher interface {
	// Watch delivers changes until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan StoreChange, error)

	// Close releases watcher resources.
	Close() error
}
