// Package dialogue implements the per-user pre-order conversation.
//
// A dialogue starts with the entry command, asks for a language, shows the sale
// terms, and after acceptance collects five fields one message at a time. The
// finished order is appended to the record store and the operator is notified.
package dialogue

import "github.com/magnitronlab/preorder-bot/core/telegram/state"

// Dialogue states. Idle means no session exists; Completed and Cancelled are
// terminal and never stored.
const (
	StateIdle             = state.StateIdle
	StateChoosingLanguage state.State = "choosing_language"
	StateAwaitingDecision state.State = "awaiting_decision"
	StateWaitingName      state.State = "waiting_name"
	StateWaitingSurname   state.State = "waiting_surname"
	StateWaitingPhone     state.State = "waiting_phone"
	StateWaitingEmail     state.State = "waiting_email"
	StateWaitingAddress   state.State = "waiting_address"
	StateCompleted        state.State = "completed"
	StateCancelled        state.State = "cancelled"
)

// Terminal reports whether s ends the dialogue.
func Terminal(s state.State) bool {
	return s == StateCompleted || s == StateCancelled
}

// collecting reports whether s waits for a free-text answer.
func collecting(s state.State) bool {
	switch s {
	case StateWaitingName, StateWaitingSurname, StateWaitingPhone, StateWaitingEmail, StateWaitingAddress:
		return true
	}
	return false
}
