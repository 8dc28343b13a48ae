package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"go.uber.org/zap"
	v1 "shiftsync.com/shiftsync/graph/v1"
)

// DirectoryClient is the read-only capability set the orchestrator needs
// from the directory API. *v1.GraphClient is the production implementation;
// tests supply a deterministic double.
type DirectoryClient interface {
	ListTeams(ctx context.Context) ([]v1.GraphTeam, error)
	ListUsers(ctx context.Context) ([]v1.GraphUser, error)
	ListGroupsByNames(ctx context.Context, names []string) ([]v1.GraphGroup, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]v1.GraphUser, error)
	ListShifts(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphShift, error)
	ListTimeCards(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphTimeCard, error)
	ListTimeOffRequests(ctx context.Context, teamID string, from, to *time.Time) ([]v1.GraphTimeOff, error)
	ListTimeOffReasons(ctx context.Context, teamID string) ([]v1.GraphTimeOffReason, error)
}

// Notifier receives operator-visible messages about sync outcomes.
type Notifier interface {
	Info(message string) error
	Error(message string) error
}

const defaultWindowDays = 7

// SyncService orchestrates one directory synchronization pass per team:
// allowed set -> users -> time cards -> time-off, all against the same
// worker lookup map. The scheduled and the on-demand trigger both run
// through here, so identical upstream state yields identical local state.
type SyncService struct {
	store      Store
	graph      DirectoryClient
	groupNames []string
	logger     *zap.Logger

	// Notifier is optional; when set, per-team failures are pushed to it.
	Notifier Notifier
	// WindowDays bounds the fetch window ending at now.
	WindowDays int

	mu        stdsync.Mutex
	teamLocks map[string]*stdsync.Mutex
	now       func() time.Time
}

func NewSyncService(store Store, graph DirectoryClient, groupNames []string, logger *zap.Logger) *SyncService {
	return &SyncService{
		store:      store,
		graph:      graph,
		groupNames: groupNames,
		logger:     logger,
		WindowDays: defaultWindowDays,
		teamLocks:  make(map[string]*stdsync.Mutex),
		now:        time.Now,
	}
}

// teamLock serializes passes for the same team. Concurrent passes for one
// team would race on worker creation; passes for different teams may run in
// parallel.
func (s *SyncService) teamLock(teamID string) *stdsync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.teamLocks[teamID]
	if !ok {
		lock = &stdsync.Mutex{}
		s.teamLocks[teamID] = lock
	}
	return lock
}

// SyncTeam runs one synchronization pass for a team. The first failing
// fetch or store operation aborts the remainder of the pass; upserts already
// committed stay in place.
func (s *SyncService) SyncTeam(ctx context.Context, teamID string) error {
	lock := s.teamLock(teamID)
	lock.Lock()
	defer lock.Unlock()

	to := s.now()
	from := to.AddDate(0, 0, -s.WindowDays)
	window := Window{From: &from, To: &to}

	s.logger.Info("sync pass start",
		zap.String("teamId", teamID),
		zap.Time("from", from),
		zap.Time("to", to))

	allowed, err := AllowedWorkerIDs(ctx, s.graph, s.groupNames)
	if err != nil {
		return fmt.Errorf("resolve allowed workers: %w", err)
	}

	users, err := s.graph.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	workers, err := UpsertWorkers(s.store, users, allowed)
	if err != nil {
		return fmt.Errorf("upsert workers: %w", err)
	}

	cards, err := s.graph.ListTimeCards(ctx, teamID, window.From, window.To)
	if err != nil {
		return fmt.Errorf("list time cards: %w", err)
	}
	if err := PersistTimeCards(s.store, cards, workers, window); err != nil {
		return fmt.Errorf("persist time cards: %w", err)
	}

	reasons, err := s.graph.ListTimeOffReasons(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list time-off reasons: %w", err)
	}
	offs, err := s.graph.ListTimeOffRequests(ctx, teamID, window.From, window.To)
	if err != nil {
		return fmt.Errorf("list time-off requests: %w", err)
	}
	if err := PersistTimeOff(s.store, offs, reasons, workers, window); err != nil {
		return fmt.Errorf("persist time-off: %w", err)
	}

	s.logger.Info("sync pass completed",
		zap.String("teamId", teamID),
		zap.Int("users", len(users)),
		zap.Int("timeCards", len(cards)),
		zap.Int("timeOffs", len(offs)))
	return nil
}

// SyncAll discovers teams and synchronizes each in turn. A failing team is
// logged and reported but does not stop the remaining teams.
func (s *SyncService) SyncAll(ctx context.Context) error {
	teams, err := s.graph.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	for _, team := range teams {
		if err := s.SyncTeam(ctx, team.ID); err != nil {
			s.logger.Error("team sync failed",
				zap.String("teamId", team.ID),
				zap.String("name", team.DisplayName),
				zap.Error(err))
			s.notifyError(fmt.Sprintf("sync failed for team %s (%s): %v", team.DisplayName, team.ID, err))
			continue
		}
	}
	return nil
}

func (s *SyncService) notifyError(message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Error(message); err != nil {
		s.logger.Warn("failed to send notification", zap.Error(err))
	}
}
