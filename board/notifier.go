package board

import "go.uber.org/zap"

// Level of a user-facing notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a short message for the user, the data behind a toast
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives user-facing notifications
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type logNotifier struct {
	log *zap.Logger
}

// LogNotifier writes notifications to log
func LogNotifier(log *zap.Logger) Notifier {
	return logNotifier{log: log}
}

func (l logNotifier) Notify(n Notification) {
	if n.Level == LevelError {
		l.log.Warn(n.Message, zap.String("level", string(n.Level)))
		return
	}
	l.log.Info(n.Message, zap.String("level", string(n.Level)))
}

type multiNotifier []Notifier

// Notifiers fans a notification out to each non-nil notifier
func Notifiers(ns ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multiNotifier) Notify(n Notification) {
	for _, x := range m {
		x.Notify(n)
	}
}

// User-facing messages
const (
	MsgLoadFailed    = "Failed to load data"
	MsgCreated       = "Task created successfully!"
	MsgCreateFailed  = "Failed to create task"
	MsgUpdated       = "Task updated successfully!"
	MsgUpdateFailed  = "Failed to update task"
	MsgCompleted     = "Task completed!"
	MsgReopened      = "Task marked as incomplete"
	MsgDeleted       = "Task deleted successfully!"
	MsgDeleteFailed  = "Failed to delete task"
	MsgArchived      = "Task archived successfully!"
	MsgArchiveFailed = "Failed to archive task"
)
