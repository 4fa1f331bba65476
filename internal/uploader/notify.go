package uploader

import "go.uber.org/zap"

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a transient user-facing message.
type Notification struct {
	Variant     string
	Title       string
	Description string
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("description", n.Description)}
	if n.Variant == VariantDestructive {
		l.Logger.Error("notification", fields...)
		return
	}
	l.Logger.Info("notification", fields...)
}
