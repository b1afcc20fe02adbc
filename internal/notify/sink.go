// Package notify delivers run narratives to their audiences.
package notify

import (
	"context"
	"errors"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// Publisher is anything that accepts the lines of one run phase.
type Publisher interface {
	Publish(ctx context.Context, location string, phase game.Phase, lines []game.LogEntry) error
}

// LogSink writes every narrative line to the process log.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, location string, phase game.Phase, lines []game.LogEntry) error {
	for i, l := range lines {
		f := logging.Fields{
			constants.LogFieldLocation: location,
			constants.LogFieldPhase:    string(phase),
			constants.LogFieldCount:    i,
		}
		if l.Image != "" {
			f["image"] = l.Image
		}
		logging.Info(l.Text, f)
	}
	return nil
}

// Fanout publishes to every sink in order. A failing sink does not stop
// the rest; the errors are joined.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, location string, phase game.Phase, lines []game.LogEntry) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, location, phase, lines); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
