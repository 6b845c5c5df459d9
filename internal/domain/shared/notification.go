package shared

import "context"

// Notification is an operator alert, rendered as a header plus label/value fields
type Notification struct {
	Title  string
	Text   string
	Fields []NotificationField
}

// NotificationField is one labelled value of a Notification
type NotificationField struct {
	Label string
	Value string
}

// Notifier delivers operator notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
