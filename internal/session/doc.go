// Package session tracks per-user conversation state for the bot.
//
// A session is created lazily on the first event from a user and holds the
// current input mode (idle, awaiting text, awaiting image). The Registry
// serializes event handling per user: Do runs exactly one function at a time
// for a given user ID while users proceed independently in parallel. This is
// the mutual-exclusion guarantee the conversation pipelines rely on.
//
// Sessions are never explicitly destroyed; the registry evicts entries after
// prolonged inactivity during normal lookups, so no background goroutine is
// needed. Eviction resets the user to a fresh idle session on their next
// event, which is indistinguishable from the initial state.
package session
