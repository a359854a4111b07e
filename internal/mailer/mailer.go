package mailer

import "context"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the mail-transport collaborator. The engine only ever sends one
// consolidated message per user per run.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
