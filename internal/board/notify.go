package board

import "log/slog"

// Notifier surfaces outcomes to the user.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

// SlogNotifier reports outcomes as log records.
type SlogNotifier struct {
	Log *slog.Logger
}

func (n SlogNotifier) Success(msg string) {
	n.logger().Info(msg)
}

func (n SlogNotifier) Failure(msg string, err error) {
	n.logger().Error(msg, "error", err)
}

func (n SlogNotifier) logger() *slog.Logger {
	if n.Log == nil {
		return slog.Default()
	}
	return n.Log
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Failure(string, error) {}
