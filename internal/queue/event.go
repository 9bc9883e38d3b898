// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// ActivityQueueName is the durable queue carrying account and note activity
// events for downstream consumers (logging, notifications, analytics).
const ActivityQueueName = "notes.activity"

// Event types published to the activity queue.
const (
	EventUserRegistered = "user.registered"
	EventNoteLiked      = "note.liked"
)

// ActivityEvent is the single envelope for all activity messages. Fields
// that do not apply to a given type are left zero.
type ActivityEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username,omitempty"`
	NoteID     uint64 `json:"note_id,omitempty"`
	NoteTitle  string `json:"note_title,omitempty"`
	Liked      bool   `json:"liked,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
