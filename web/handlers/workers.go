package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"shiftsync.com/shiftsync/core"
	"shiftsync.com/shiftsync/utils"
	"shiftsync.com/shiftsync/web/common"
)

type workerDto struct {
	ID          uint       `json:"id"`
	EmployeeKey string     `json:"employeeKey"`
	FullName    string     `json:"fullName"`
	Team        *string    `json:"team"`
	Role        *string    `json:"role"`
	ArchivedAt  *time.Time `json:"archivedAt"`
}

type breakDto struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type timeEntryDto struct {
	ID      uint            `json:"id"`
	Date    common.DateOnly `json:"date"`
	StartAt time.Time       `json:"startAt"`
	EndAt   time.Time       `json:"endAt"`
	Source  string          `json:"source"`
	Breaks  []breakDto      `json:"breaks"`
}

func toWorkerDto(w core.Worker) workerDto {
	return workerDto{
		ID:          w.ID,
		EmployeeKey: w.EmployeeKey,
		FullName:    w.FullName,
		Team:        w.Team,
		Role:        w.Role,
		ArchivedAt:  w.ArchivedAt,
	}
}

func toTimeEntryDto(e core.TimeEntry) timeEntryDto {
	source := "import"
	if e.GraphID != nil {
		source = "directory"
	}
	return timeEntryDto{
		ID:      e.ID,
		Date:    common.DateOnly{Time: e.Date},
		StartAt: e.StartAt,
		EndAt:   e.EndAt,
		Source:  source,
		Breaks: utils.Map(e.Breaks, func(b core.Break) breakDto {
			return breakDto{StartAt: b.StartAt, EndAt: b.EndAt}
		}),
	}
}

func (ep *Endpoint) ListWorkers(c *gin.Context) {
	workers, err := ep.Store.ListWorkers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(utils.Map(workers, toWorkerDto)))
}

type timeEntryQuery struct {
	From string `form:"from" json:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" json:"to" binding:"omitempty,datetime=2006-01-02"`
}

func (ep *Endpoint) ListWorkerTimeEntries(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("invalid worker id"))
		return
	}

	var query timeEntryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	entries, err := ep.Store.TimeEntriesByWorker(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	if query.From != "" {
		from := utils.MustParseDate(query.From)
		entries = utils.Filter(entries, func(e core.TimeEntry) bool { return !e.Date.Before(from) })
	}
	if query.To != "" {
		to := utils.MustParseDate(query.To)
		entries = utils.Filter(entries, func(e core.TimeEntry) bool { return !e.Date.After(to) })
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(utils.Map(entries, toTimeEntryDto)))
}
