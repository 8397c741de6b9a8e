// Package eventlog defines the append-only event record, its canonical JSON
// serialization, and the SHA-256 replay hash. No example repo in the
// retrieval pack carries an RFC 8785-style canonicalizer, so this is a
// deliberate stdlib-only leaf built on encoding/json and sort — see
// DESIGN.md for the justification. Event ID minting follows the teacher's
// journal package's monotonic-sequence idiom.
package eventlog

// Event is a single append-only record: an id minted from the owning
// counter, the round and active unit at emission time, a type discriminator,
// and an open JSON-compatible payload.
type Event struct {
	EventID    string         `json:"event_id"`
	Round      int            `json:"round"`
	ActiveUnit string         `json:"active_unit"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
}
