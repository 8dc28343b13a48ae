package v1

import (
	"context"
	"fmt"
	"time"
)

type GraphShift struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SharedShift ShiftInfo `json:"sharedShift"`
}

type ShiftInfo struct {
	StartDateTime time.Time    `json:"startDateTime"`
	EndDateTime   time.Time    `json:"endDateTime"`
	Breaks        []ShiftBreak `json:"breaks,omitempty"`
}

type ShiftBreak struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type GraphTimeCard struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	ClockInDateTime  time.Time       `json:"clockInDateTime"`
	ClockOutDateTime *time.Time      `json:"clockOutDateTime,omitempty"`
	Breaks           []TimeCardBreak `json:"breaks,omitempty"`
}

type TimeCardBreak struct {
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
}

type GraphTimeOff struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	TimeOffReasonID string    `json:"timeOffReasonId"`
}

type GraphTimeOffReason struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ListShifts returns the planned shifts for a team, optionally windowed.
func (c *GraphClient) ListShifts(ctx context.Context, teamID string, from, to *time.Time) ([]GraphShift, error) {
	path := fmt.Sprintf("/teams/%s/schedule/shifts", teamID)
	return getList[GraphShift](ctx, c.Transport, path, rangeQuery(from, to))
}

// ListTimeCards returns the clock-in/clock-out records for a team,
// optionally windowed. An absent window returns the unbounded set.
func (c *GraphClient) ListTimeCards(ctx context.Context, teamID string, from, to *time.Time) ([]GraphTimeCard, error) {
	path := fmt.Sprintf("/teams/%s/schedule/timeCards", teamID)
	return getList[GraphTimeCard](ctx, c.Transport, path, rangeQuery(from, to))
}

// ListTimeOffRequests returns the time-off requests for a team, optionally windowed.
func (c *GraphClient) ListTimeOffRequests(ctx context.Context, teamID string, from, to *time.Time) ([]GraphTimeOff, error) {
	path := fmt.Sprintf("/teams/%s/schedule/timeOffRequests", teamID)
	return getList[GraphTimeOff](ctx, c.Transport, path, rangeQuery(from, to))
}

// ListTimeOffReasons returns the time-off reasons configured for a team.
func (c *GraphClient) ListTimeOffReasons(ctx context.Context, teamID string) ([]GraphTimeOffReason, error) {
	path := fmt.Sprintf("/teams/%s/schedule/timeOffReasons", teamID)
	return getList[GraphTimeOffReason](ctx, c.Transport, path, nil)
}

// rangeQuery builds the optional RFC3339 date range query items.
func rangeQuery(from, to *time.Time) map[string]string {
	if from == nil && to == nil {
		return nil
	}
	query := make(map[string]string, 2)
	if from != nil {
		query["startDateTime"] = from.Format(time.RFC3339)
	}
	if to != nil {
		query["endDateTime"] = to.Format(time.RFC3339)
	}
	return query
}
