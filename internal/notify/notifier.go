package notify

import (
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

type Kind = string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notifier is the user-feedback collaborator. Implementations must be
// fire-and-forget: Notify never blocks the caller and never fails.
type Notifier interface {
	Notify(kind Kind, title, message string)
}

// LogNotifier writes notifications to the structured log. In deployments
// with a real push channel this is the fallback sink.
type LogNotifier struct{}

func NewLogNotifier() LogNotifier { return LogNotifier{} }

func (LogNotifier) Notify(kind Kind, title, message string) {
	var ev *zerolog.Event
	switch kind {
	case KindError:
		ev = zlog.Error()
	case KindWarning:
		ev = zlog.Warn()
	default:
		ev = zlog.Info()
	}
	ev.Str("kind", string(kind)).Str("title", title).Msg(message)
}
