package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
	"shiftsync.com/shiftsync/utils"
)

// fakeDirectory serves canned Graph responses. Per-method error hooks let
// tests break a single step of a pass.
type fakeDirectory struct {
	teams   []v1.GraphTeam
	users   []v1.GraphUser
	groups  []v1.GraphGroup
	members map[string][]v1.GraphUser
	cards   map[string][]v1.GraphTimeCard
	offs    map[string][]v1.GraphTimeOff
	reasons map[string][]v1.GraphTimeOffReason

	cardsErr error
	teamsErr error
}

func (f *fakeDirectory) ListTeams(ctx context.Context) ([]v1.GraphTeam, error) {
	return f.teams, f.teamsErr
}

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]v1.GraphUser, error) {
	return f.users, nil
}

func (f *fakeDirectory) ListGroupsByNames(ctx context.Context, names []string) ([]v1.GraphGroup, error) {
	return f.groups, nil
}

func (f *fakeDirectory) ListGroupMembers(ctx context.Context, groupID string) ([]v1.GraphUser, error) {
	return f.members[groupID], nil
}

func (f *fakeDirectory) ListShifts(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphShift, error) {
	return nil, nil
}

func (f *fakeDirectory) ListTimeCards(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphTimeCard, error) {
	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	return f.cards[teamID], nil
}

func (f *fakeDirectory) ListTimeOffRequests(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphTimeOff, error) {
	return f.offs[teamID], nil
}

func (f *fakeDirectory) ListTimeOffReasons(ctx context.Context, teamID string) ([]v1.GraphTimeOffReason, error) {
	return f.reasons[teamID], nil
}

type recordingNotifier struct {
	errors []string
}

func (n *recordingNotifier) Info(message string) error { return nil }

func (n *recordingNotifier) Error(message string) error {
	n.errors = append(n.errors, message)
	return nil
}

var syncNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(store Store, dir *fakeDirectory, groupNames []string) *SyncService {
	svc := NewSyncService(store, dir, groupNames, zap.NewNop())
	svc.now = func() time.Time { return syncNow }
	return svc
}

func card(id, userID string, clockIn time.Time, hours int) v1.GraphTimeCard {
	return v1.GraphTimeCard{
		ID:               id,
		UserID:           userID,
		ClockInDateTime:  clockIn,
		ClockOutDateTime: utils.Ptr(clockIn.Add(time.Duration(hours) * time.Hour)),
	}
}

func TestSyncTeamPersistsCardsAndTimeOff(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{
			{ID: "User-1", DisplayName: "Alice Smith"},
			{ID: "User-2", DisplayName: "Bob Jones"},
		},
		cards: map[string][]v1.GraphTimeCard{
			"team-a": {
				{
					ID:               "tc-1",
					UserID:           "User-1",
					ClockInDateTime:  syncNow.Add(-24 * time.Hour),
					ClockOutDateTime: utils.Ptr(syncNow.Add(-16 * time.Hour)),
					Breaks: []v1.TimeCardBreak{
						{StartDateTime: syncNow.Add(-20 * time.Hour), EndDateTime: syncNow.Add(-19 * time.Hour)},
					},
				},
			},
		},
		offs: map[string][]v1.GraphTimeOff{
			"team-a": {
				{
					ID:              "to-1",
					UserID:          "User-2",
					StartDateTime:   syncNow.Add(-48 * time.Hour),
					EndDateTime:     syncNow.Add(-24 * time.Hour),
					TimeOffReasonID: "r-1",
				},
			},
		},
		reasons: map[string][]v1.GraphTimeOffReason{
			"team-a": {{ID: "r-1", DisplayName: "Annual leave"}},
		},
	}
	svc := newTestService(store, dir, nil)

	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	alice, err := store.FindWorkerByKey("user-1")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, "Alice Smith", alice.FullName)
	assert.Nil(t, alice.ArchivedAt)

	entries, err := store.TimeEntriesByWorker(alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tc-1", *entries[0].GraphID)
	require.Len(t, entries[0].Breaks, 1)

	leave, err := store.FindLeaveByGraphID("to-1")
	require.NoError(t, err)
	require.NotNil(t, leave)
	assert.Equal(t, "Annual leave", leave.Type)
}

func TestSyncTeamIsIdempotent(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
		cards: map[string][]v1.GraphTimeCard{
			"team-a": {card("tc-1", "user-1", syncNow.Add(-24*time.Hour), 8)},
		},
	}
	svc := newTestService(store, dir, nil)

	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	assert.Len(t, store.entries, 1)
	assert.Len(t, store.workers, 1)
}

func TestSyncTeamSkipsOpenCardsAndUnknownWorkers(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
		cards: map[string][]v1.GraphTimeCard{
			"team-a": {
				// still clocked in
				{ID: "tc-open", UserID: "user-1", ClockInDateTime: syncNow.Add(-2 * time.Hour)},
				// user not in the directory listing
				card("tc-ghost", "user-99", syncNow.Add(-24*time.Hour), 8),
			},
		},
	}
	svc := newTestService(store, dir, nil)

	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))
	assert.Empty(t, store.entries)
}

func TestSyncTeamDeletesStaleEntriesInsideWindow(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
		cards: map[string][]v1.GraphTimeCard{
			"team-a": {card("tc-keep", "user-1", syncNow.Add(-24*time.Hour), 8)},
		},
	}
	svc := newTestService(store, dir, nil)
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	// second pass: upstream dropped tc-keep and an old entry sits outside
	// the window
	alice, _ := store.FindWorkerByKey("user-1")
	oldDate := syncNow.AddDate(0, 0, -30)
	require.NoError(t, store.CreateTimeEntry(&core.TimeEntry{
		WorkerID: alice.ID,
		GraphID:  utils.Ptr("tc-ancient"),
		Date:     oldDate,
		StartAt:  oldDate,
		EndAt:    oldDate.Add(8 * time.Hour),
	}))
	dir.cards["team-a"] = nil

	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	gone, err := store.FindTimeEntryByGraphID("tc-keep")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := store.FindTimeEntryByGraphID("tc-ancient")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestSyncTeamDeletesStaleLeavesByOverlap(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
		offs: map[string][]v1.GraphTimeOff{
			"team-a": {{
				ID:            "to-1",
				UserID:        "user-1",
				StartDateTime: syncNow.Add(-48 * time.Hour),
				EndDateTime:   syncNow.Add(-24 * time.Hour),
			}},
		},
	}
	svc := newTestService(store, dir, nil)
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	dir.offs["team-a"] = nil
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	gone, err := store.FindLeaveByGraphID("to-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSyncTeamArchivesWorkersOutsideAllowedGroups(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{
			{ID: "user-1", DisplayName: "Alice Smith"},
			{ID: "user-2", DisplayName: "Bob Jones"},
		},
		groups:  []v1.GraphGroup{{ID: "g-1", DisplayName: "Retail"}},
		members: map[string][]v1.GraphUser{"g-1": {{ID: "user-1"}}},
	}
	svc := newTestService(store, dir, []string{"Retail"})

	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	alice, _ := store.FindWorkerByKey("user-1")
	bob, _ := store.FindWorkerByKey("user-2")
	assert.Nil(t, alice.ArchivedAt)
	require.NotNil(t, bob.ArchivedAt)
	firstArchive := *bob.ArchivedAt

	// archival is monotonic even if the user rejoins the allowed set later
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))
	bob, _ = store.FindWorkerByKey("user-2")
	require.NotNil(t, bob.ArchivedAt)
	assert.Equal(t, firstArchive, *bob.ArchivedAt)
}

func TestSyncTeamRefreshesWorkerName(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
	}
	svc := newTestService(store, dir, nil)
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	dir.users[0].DisplayName = "Alice Brown"
	require.NoError(t, svc.SyncTeam(context.Background(), "team-a"))

	alice, err := store.FindWorkerByKey("USER-1")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, "Alice Brown", alice.FullName)
	assert.Len(t, store.workers, 1)
}

func TestSyncTeamAbortsPassOnFetchError(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		users:    []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
		cardsErr: errors.New("upstream 500"),
	}
	svc := newTestService(store, dir, nil)

	err := svc.SyncTeam(context.Background(), "team-a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list time cards")

	// workers upserted before the failing step stay in place
	assert.Len(t, store.workers, 1)
}

func TestSyncAllIsolatesTeamFailures(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{
		teams: []v1.GraphTeam{
			{ID: "team-a", DisplayName: "Alpha"},
			{ID: "team-b", DisplayName: "Beta"},
		},
		users: []v1.GraphUser{{ID: "user-1", DisplayName: "Alice Smith"}},
	}
	notifier := &recordingNotifier{}
	svc := newTestService(store, dir, nil)
	svc.Notifier = notifier

	// every ListTimeCards call fails, so each team reports independently
	dir.cardsErr = errors.New("upstream 500")

	require.NoError(t, svc.SyncAll(context.Background()))
	assert.Len(t, notifier.errors, 2)
}

func TestSyncAllFailsWhenTeamsUnavailable(t *testing.T) {
	store := newMemStore()
	dir := &fakeDirectory{teamsErr: errors.New("upstream 503")}
	svc := newTestService(store, dir, nil)

	assert.Error(t, svc.SyncAll(context.Background()))
}
