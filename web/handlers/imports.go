package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/core"
	"shiftsync.com/shiftsync/web/common"
)

type batchDto struct {
	ID         uint       `json:"id"`
	Filename   *string    `json:"filename"`
	UploadedBy *string    `json:"uploadedBy"`
	Status     string     `json:"status"`
	RowsTotal  int        `json:"rowsTotal"`
	RowsOk     int        `json:"rowsOk"`
	RowsError  int        `json:"rowsError"`
	StartedAt  *time.Time `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toBatchDto(b *core.ImportBatch) batchDto {
	return batchDto{
		ID:         b.ID,
		Filename:   b.Filename,
		UploadedBy: b.UploadedBy,
		Status:     string(b.Status),
		RowsTotal:  b.RowsTotal,
		RowsOk:     b.RowsOk,
		RowsError:  b.RowsError,
		StartedAt:  b.StartedAt,
		FinishedAt: b.FinishedAt,
		CreatedAt:  b.CreatedAt,
	}
}

// CreateImport accepts a timesheet workbook, stores it, and queues a batch
// for background processing. The response carries the batch id so the
// client can poll GetImport for progress.
func (ep *Endpoint) CreateImport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("missing 'file' form field"))
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("only .xlsx files are accepted"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer src.Close()

	objectKey := fmt.Sprintf("imports/%s%s", uuid.NewString(), ext)
	if err := ep.Files.Write(c.Request.Context(), objectKey, src); err != nil {
		ep.Logger.Error("storing upload failed", zap.String("key", objectKey), zap.Error(err))
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse("could not store uploaded file"))
		return
	}

	batch := &core.ImportBatch{
		Filename:   &file.Filename,
		UploadedBy: uploaderFromClaims(c),
		Status:     core.BatchQueued,
	}
	if err := ep.Store.CreateBatch(batch); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	batchID := batch.ID
	err = ep.Dispatcher.Submit(func(ctx context.Context) {
		if err := ep.Imports.RunImport(ctx, batchID, objectKey); err != nil {
			ep.Logger.Error("import run failed", zap.Uint("batch", batchID), zap.Error(err))
		}
	})
	if err != nil {
		c.JSON(http.StatusTooManyRequests, common.NewErrorResponse("import queue is full, retry later"))
		return
	}

	c.JSON(http.StatusAccepted, common.NewSuccessResponse(toBatchDto(batch)))
}

func (ep *Endpoint) GetImport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid batch id"))
		return
	}

	batch, err := ep.Store.FindBatch(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if batch == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("batch not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toBatchDto(batch)))
}

func uploaderFromClaims(c *gin.Context) *string {
	v, ok := c.Get("claims")
	if !ok {
		return nil
	}
	claims, ok := v.(jwt.MapClaims)
	if !ok {
		return nil
	}
	if name, ok := claims["unique_name"].(string); ok && name != "" {
		return &name
	}
	return nil
}
