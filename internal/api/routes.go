package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
)

// Register mounts the API on r. feed may be nil when no live feed is served.
func Register(r gin.IRouter, h *QueueHandler, feed http.Handler) {
	g := r.Group(constants.RouteAPIPrefix)
	{
		g.GET(constants.RouteVersion, Version)
		g.GET(constants.RouteLocations, h.ListLocations)
		g.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		g.GET(constants.RouteQueues, h.ListQueues)
		g.POST(constants.RouteQueueJoin, h.JoinQueue)
		g.POST(constants.RouteQueueLeave, h.LeaveQueue)
		if feed != nil {
			g.GET(constants.RouteFeed, gin.WrapH(feed))
		}
	}
}
