package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

type locationView struct {
	Name      string   `json:"name"`
	Capacity  int      `json:"capacity"`
	EntryFee  int      `json:"entry_fee"`
	MinPower  int      `json:"min_power"`
	NPCs      []string `json:"npcs"`
	FillDelay string   `json:"fill_delay"`
}

// ListLocations describes every location a run can take place at.
func (h *QueueHandler) ListLocations(c *gin.Context) {
	names := h.locations.Locations()
	out := make([]locationView, 0, len(names))
	for _, n := range names {
		loc, ok := h.locations.Location(n)
		if !ok {
			continue
		}
		out = append(out, locationView{
			Name:      loc.Name,
			Capacity:  loc.Capacity,
			EntryFee:  loc.EntryFee,
			MinPower:  loc.MinPower,
			NPCs:      loc.NPCs,
			FillDelay: loc.FillDelay.String(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top profiles by extractions, then funds.
func (h *QueueHandler) ListLeaderboard(c *gin.Context) {
	limit := constants.DefaultLeaderboard
	if s := c.Query(constants.QueryLimit); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= constants.MaxLeaderboard {
			limit = n
		}
	}
	profiles, err := h.board.TopProfiles(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	if profiles == nil {
		profiles = []game.Profile{}
	}
	out, err := MarshalIntoSnakeTimestamps(profiles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}
