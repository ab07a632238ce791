package board

import (
	"context"
	"time"
)

// Pinger checks whether the notes service is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// WatchConnectivity polls p every interval until ctx is done. Losing the
// service is reported once; getting it back is reported and followed by a
// reload of the store. onChange, if set, runs after each transition.
func (s *Store) WatchConnectivity(ctx context.Context, p Pinger, interval time.Duration, onChange func(online bool)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	online := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		err := p.Health(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case err != nil && online:
			online = false
			s.log.Warn("notes service unreachable", "error", err)
			s.notify.Failure("You have lost connection.", err)
		case err == nil && !online:
			online = true
			s.notify.Success("Connection restored!")
			// Load reports its own failures.
			_ = s.Load(ctx)
		default:
			continue
		}
		if onChange != nil {
			onChange(online)
		}
	}
}
