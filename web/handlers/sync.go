package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/web/common"
)

// SyncAll queues a full directory sync across every team.
func (ep *Endpoint) SyncAll(c *gin.Context) {
	err := ep.Dispatcher.Submit(func(ctx context.Context) {
		if err := ep.Sync.SyncAll(ctx); err != nil {
			ep.Logger.Error("sync-all run failed", zap.Error(err))
		}
	})
	if err != nil {
		c.JSON(http.StatusTooManyRequests, common.NewErrorResponse("job queue is full, retry later"))
		return
	}

	c.JSON(http.StatusAccepted, common.NewSuccessResponse(gin.H{"status": "queued"}))
}

// SyncTeam queues a sync pass for a single team.
func (ep *Endpoint) SyncTeam(c *gin.Context) {
	teamID := c.Param("teamId")
	if teamID == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("missing team id"))
		return
	}

	err := ep.Dispatcher.Submit(func(ctx context.Context) {
		if err := ep.Sync.SyncTeam(ctx, teamID); err != nil {
			ep.Logger.Error("team sync run failed", zap.String("team", teamID), zap.Error(err))
		}
	})
	if err != nil {
		c.JSON(http.StatusTooManyRequests, common.NewErrorResponse("job queue is full, retry later"))
		return
	}

	c.JSON(http.StatusAccepted, common.NewSuccessResponse(gin.H{"status": "queued", "team": teamID}))
}
