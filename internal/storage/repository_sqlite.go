package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/dedupe"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// new profiles start with these
	startingFunds int
	starterWeapon string
}

func NewSQLiteRepository(db *gorm.DB, startingFunds int, starterWeapon string) Repository {
	return &sqliteRepository{db: db, startingFunds: startingFunds, starterWeapon: starterWeapon}
}

type getResult struct {
	profile *game.Profile
	created bool
}

func (r *sqliteRepository) Get(ctx context.Context, participantID, displayNameHint string) (*game.Profile, bool, error) {
	v, err, _ := dedupe.ProfileGroup.Do(dedupe.ProfileKey(participantID), func() (interface{}, error) {
		return r.loadOrCreate(ctx, participantID, displayNameHint)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(*getResult)
	// callers sharing one flight must not share the struct
	return res.profile.Clone(), res.created, nil
}

func (r *sqliteRepository) loadOrCreate(ctx context.Context, participantID, displayNameHint string) (*getResult, error) {
	p, err := r.Find(ctx, participantID)
	if err == nil {
		return &getResult{profile: p}, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	p = &game.Profile{
		ParticipantID: participantID,
		DisplayName:   displayNameHint,
		Funds:         r.startingFunds,
		Injury:        game.InjuryNone,
	}
	if r.starterWeapon != "" {
		p.OwnedWeapons = []string{r.starterWeapon}
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return nil, fmt.Errorf("create profile: %w", res.Error)
	}
	created := res.RowsAffected > 0
	if created {
		logging.Info("profile created", logging.Fields{constants.LogFieldParticipant: participantID})
		return &getResult{profile: p, created: true}, nil
	}
	// lost a race with another process; read the winner's row
	p, err = r.Find(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return &getResult{profile: p}, nil
}

func (r *sqliteRepository) Find(ctx context.Context, participantID string) (*game.Profile, error) {
	var p game.Profile
	if err := r.db.WithContext(ctx).Where("participant_id = ?", participantID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, participantID)
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) Save(ctx context.Context, p *game.Profile) error {
	if p.ID == 0 {
		existing, err := r.Find(ctx, p.ParticipantID)
		if err != nil {
			return err
		}
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(p).Error
}

// TopProfiles returns top N profiles ordered by extractions desc, then funds desc.
func (r *sqliteRepository) TopProfiles(ctx context.Context, limit int) ([]game.Profile, error) {
	if limit <= 0 {
		limit = constants.DefaultLeaderboard
	}
	var out []game.Profile
	if err := r.db.WithContext(ctx).Model(&game.Profile{}).
		Order("extractions DESC").
		Order("funds DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
