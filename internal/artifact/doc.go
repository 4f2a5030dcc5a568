// Package artifact provides the ephemeral artifact store for the bot.
//
// An artifact is a short-lived payload produced or consumed during one
// conversation turn: a generated QR image, an uploaded image awaiting decode,
// or an overflow text blob delivered as a document. Payloads are written to
// files under a spool directory; the in-memory index is the single source of
// truth for liveness.
//
// Every artifact carries a deadline (CreatedAt + TTL). Deletion happens
// through exactly one entry point, Store.Delete, which is idempotent: the
// post-delivery path, the periodic sweep, and the shutdown flush may race on
// the same artifact and all succeed, with exactly one of them releasing the
// backing file. An artifact that is never explicitly deleted is still bounded
// by its TTL.
//
// The spool directory is exclusively owned by one process via a flock; a
// second instance pointed at the same directory refuses to start.
//
// Thread safety: Store is safe for concurrent use.
package artifact
