package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ryanping/jsoncrack.com/internal/mutate"
)

// User-facing notification messages.
const (
	MsgUpdated      = "Node updated"
	MsgInvalidJSON  = "Invalid JSON syntax"
	MsgUpdateFailed = "Failed to update node"
)

// Level is the severity of a notification.
type Level int

const (
	Success Level = iota
	Failure
)

func (l Level) String() string {
	if l == Success {
		return "success"
	}
	return "failure"
}

// Notification is an advisory signal about a save attempt.
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to a charmbracelet logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	if n.Level == Success {
		logger.Info(n.Message)
		return
	}
	logger.Error(n.Message, "err", n.Err)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// MessageFor returns the notification message a save outcome produces.
func MessageFor(err error) string {
	switch {
	case err == nil:
		return MsgUpdated
	case mutate.IsKind(err, mutate.EditBufferInvalid):
		return MsgInvalidJSON
	default:
		return MsgUpdateFailed
	}
}
