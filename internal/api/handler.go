package api

import (
	"context"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/service"
)

// Queues is the pool lifecycle surface the handlers drive.
type Queues interface {
	Join(ctx context.Context, req service.JoinRequest) (service.QueueResult, error)
	Leave(ctx context.Context, location, participantID string) (service.LeaveResult, error)
	ListQueues() []service.QueueInfo
}

type Leaderboard interface {
	TopProfiles(ctx context.Context, limit int) ([]game.Profile, error)
}

type Locations interface {
	Locations() []string
	Location(name string) (game.Location, bool)
}

// QueueHandler groups the extraction HTTP handlers.
type QueueHandler struct {
	queues    Queues
	board     Leaderboard
	locations Locations
}

func NewQueueHandler(queues Queues, board Leaderboard, locations Locations) *QueueHandler {
	return &QueueHandler{queues: queues, board: board, locations: locations}
}
