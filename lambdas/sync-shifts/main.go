package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
	"shiftsync.com/shiftsync/config"
	"shiftsync.com/shiftsync/core"
	v1 "shiftsync.com/shiftsync/graph/v1"
	"shiftsync.com/shiftsync/infrastructure/devops"
	"shiftsync.com/shiftsync/sync"
	"shiftsync.com/shiftsync/utils"
)

// SyncEvent narrows a scheduled run to a subset of deploy targets. A nil
// Targets list means every target in the parameter store.
type SyncEvent struct {
	Targets *[]string `json:"targets"`
}

func HandleRequest(ctx context.Context, event SyncEvent) (map[string]string, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	paramName := os.Getenv("SHIFTSYNC_DEPLOY_TARGETS_PARAM")
	if paramName == "" {
		paramName = "/shiftsync/deploy-targets"
	}

	targets, err := devops.LoadDeployTargets(ctx, paramName)
	if err != nil {
		return nil, fmt.Errorf("load deploy targets: %w", err)
	}

	if event.Targets != nil {
		wanted := utils.SetOf(*event.Targets)
		targets = utils.Filter(targets, func(t devops.DeployTarget) bool {
			return wanted[t.Name]
		})
	}

	tokens := v1.NewClientCredentialsTokenProvider(
		cfg.Graph.TenantID,
		cfg.Graph.ClientID,
		cfg.Graph.ClientSecret)
	graph := v1.NewGraphClient(cfg.Graph.BaseURL, tokens)

	results := make(map[string]string)
	for _, target := range targets {
		if err := syncTarget(ctx, target, graph, cfg.Graph.GroupNames, logger); err != nil {
			logger.Error("target sync failed",
				zap.String("target", target.Name),
				zap.Error(err))
			results[target.Name] = err.Error()
			continue
		}
		results[target.Name] = "ok"
	}

	return results, nil
}

func syncTarget(ctx context.Context, target devops.DeployTarget, graph sync.DirectoryClient, groupNames []string, logger *zap.Logger) error {
	db, err := core.ConnectDB(target.DSN())
	if err != nil {
		return fmt.Errorf("connect %s: %w", target.Name, err)
	}
	if err := core.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate %s: %w", target.Name, err)
	}

	store := sync.NewGormStore(db)
	service := sync.NewSyncService(store, graph, groupNames, logger.With(zap.String("target", target.Name)))
	return service.SyncAll(ctx)
}

func main() {
	lambda.Start(HandleRequest)
}
