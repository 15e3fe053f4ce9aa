// Package state keeps per-user conversation state for Telegram bots.
// It is domain-agnostic: bots choose the session type stored per user.
package state
