package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/infrastructure/filesystem"
	"shiftsync.com/shiftsync/sync"
)

// Endpoint bundles the services the HTTP handlers delegate to.
type Endpoint struct {
	Store      sync.Store
	Sync       *sync.SyncService
	Imports    *sync.ImportService
	Dispatcher *sync.Dispatcher
	Files      filesystem.FileStore
	Logger     *zap.Logger
}

func Register(r *gin.RouterGroup, ep *Endpoint) {
	r.POST("/imports", ep.CreateImport)
	r.GET("/imports/:id", ep.GetImport)
	r.POST("/sync", ep.SyncAll)
	r.POST("/sync/:teamId", ep.SyncTeam)
	r.GET("/workers", ep.ListWorkers)
	r.GET("/workers/:id/time-entries", ep.ListWorkerTimeEntries)
}
