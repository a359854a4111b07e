package mq

import "time"

// Routing keys published by the reminder batch.
const (
	RoutingKeyReminderSent   = "reminder.sent"
	RoutingKeyReminderFailed = "reminder.failed"
	RoutingKeyReminderRun    = "reminder.run"
)

// ReminderSentPayload is published after a consolidated email was sent and
// its log rows were written.
type ReminderSentPayload struct {
	UserID        int64     `json:"user_id"`
	ReminderTypes []string  `json:"reminder_types"`
	PlantCount    int       `json:"plant_count"`
	SentAt        time.Time `json:"sent_at"`
}

// ReminderFailedPayload is published when the mail transport rejected a
// user's consolidated message. The candidates stay unlogged and retry on
// the next run.
type ReminderFailedPayload struct {
	UserID   int64     `json:"user_id"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// ReminderRunPayload triggers a manual batch run when consumed from the
// reminder.run queue. The run lock makes overlap with the scheduled run
// harmless.
type ReminderRunPayload struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}
