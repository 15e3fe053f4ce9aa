package state

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Store keeps one session value per Telegram user.
type Store[T any] interface {
	// Get returns the session for userID and whether one exists.
	Get(userID int64) (T, bool)
	// Put creates or replaces the session for userID.
	Put(userID int64, session T)
	// Delete discards the session for userID.
	Delete(userID int64)
	// Update runs fn atomically for userID. fn receives the current session (zero value and
	// false when none exists) and returns the next one; keep=false deletes the session.
	// A non-nil error means the result of fn was not stored.
	Update(userID int64, fn func(cur T, ok bool) (next T, keep bool)) error
	// Len reports the number of live sessions.
	Len() int
}
