package service

import (
	"context"
	"time"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
)

// RunTimeoutLoop calls OnTimeoutTick every interval until ctx is done.
func (m *Manager) RunTimeoutLoop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = constants.DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.OnTimeoutTick(ctx)
		}
	}
}
