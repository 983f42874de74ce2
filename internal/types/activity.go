package types

import "github.com/google/uuid"

// Action tags an activity-log entry with the kind of event it records.
type Action string

// Activity log actions.
const (
	ActionJobDiscovered        Action = "job_discovered"
	ActionJobAnalyzed          Action = "job_analyzed"
	ActionResumeGenerated      Action = "resume_generated"
	ActionApplicationSubmitted Action = "application_submitted"
	ActionError                Action = "error"
	ActionUserAction           Action = "user_action"
)

// ActivityStatus is the outcome recorded on an activity-log entry.
type ActivityStatus string

// Activity entry outcomes.
const (
	ActivitySuccess ActivityStatus = "success"
	ActivityFailed  ActivityStatus = "failed"
	ActivityPending ActivityStatus = "pending"
)

// ActivityEntry is an append-only audit record. Entries are prepended to
// the log (most recent first) and never mutated after creation.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Action    Action         `json:"action"`
	JobID     string         `json:"job_id,omitempty"`
	Details   string         `json:"details"`
	Status    ActivityStatus `json:"status"`
}

// NewActivityEntry builds an activity entry with a fresh random id and the
// current timestamp.
func NewActivityEntry(action Action, details string, status ActivityStatus) ActivityEntry {
	return ActivityEntry{
		ID:        uuid.NewString(),
		Timestamp: NowISO(),
		Action:    action,
		Details:   details,
		Status:    status,
	}
}
