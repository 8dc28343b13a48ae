package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
)

// UpsertWorkers reconciles directory users onto local workers, keyed by the
// external employee key compared case-insensitively. Existing workers get
// their display name refreshed. When `allowed` is non-empty, a user absent
// from it is archived; archival is monotonic and never cleared here. An empty
// allow-list means no restriction.
//
// Returns a lowercased key -> worker map for downstream steps of the same pass.
func UpsertWorkers(store Store, users []v1.GraphUser, allowed map[string]bool) (map[string]*core.Worker, error) {
	workers := make(map[string]*core.Worker, len(users))

	for _, user := range users {
		key := strings.ToLower(user.ID)

		existing, err := store.FindWorkerByKey(user.ID)
		if err != nil {
			return nil, fmt.Errorf("find worker %s: %w", user.ID, err)
		}

		if existing != nil {
			if user.DisplayName != "" {
				existing.FullName = user.DisplayName
			}
			if len(allowed) > 0 && !allowed[user.ID] && existing.ArchivedAt == nil {
				now := time.Now()
				existing.ArchivedAt = &now
			}
			if err := store.SaveWorker(existing); err != nil {
				return nil, fmt.Errorf("save worker %s: %w", user.ID, err)
			}
			workers[key] = existing
			continue
		}

		worker := &core.Worker{EmployeeKey: key, FullName: user.DisplayName}
		if len(allowed) > 0 && !allowed[user.ID] {
			now := time.Now()
			worker.ArchivedAt = &now
		}
		if err := store.CreateWorker(worker); err != nil {
			return nil, fmt.Errorf("create worker %s: %w", user.ID, err)
		}
		workers[key] = worker
	}

	return workers, nil
}

// AllowedWorkerIDs resolves the configured group names into the set of user
// ids considered active. No configured groups means an empty set, which the
// upsert treats as "everyone allowed".
func AllowedWorkerIDs(ctx context.Context, graph DirectoryClient, groupNames []string) (map[string]bool, error) {
	if len(groupNames) == 0 {
		return map[string]bool{}, nil
	}

	groups, err := graph.ListGroupsByNames(ctx, groupNames)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	allowed := make(map[string]bool)
	for _, group := range groups {
		members, err := graph.ListGroupMembers(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("list members of group %s: %w", group.ID, err)
		}
		for _, member := range members {
			allowed[member.ID] = true
		}
	}
	return allowed, nil
}
