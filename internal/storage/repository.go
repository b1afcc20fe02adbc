package storage

import (
	"context"
	"errors"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

// ErrProfileNotFound is returned by Find when no profile exists.
var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	// Get loads the profile or creates it with the starting funds and the
	// starter weapon. created reports whether the row was inserted by this
	// load; concurrent callers deduplicated onto the same load all see it.
	Get(ctx context.Context, participantID, displayNameHint string) (p *game.Profile, created bool, err error)
	Find(ctx context.Context, participantID string) (*game.Profile, error)
	Save(ctx context.Context, p *game.Profile) error
	// TopProfiles returns up to limit profiles ordered by extractions, then funds.
	TopProfiles(ctx context.Context, limit int) ([]game.Profile, error)
}
