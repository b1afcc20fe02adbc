package dedupe

// Package dedupe holds the shared singleflight groups used to collapse
// concurrent work on the same key. A single process-wide group per concern
// keeps one database round trip in flight per key while other callers wait
// for its result.

import "golang.org/x/sync/singleflight"

// ProfileGroup deduplicates first-time profile loads keyed by
// "profile:<participant id>", so two racing joins of a new player create a
// single row.
var ProfileGroup singleflight.Group

// ProfileKey builds the ProfileGroup key for a participant.
func ProfileKey(participantID string) string {
	return "profile:" + participantID
}
