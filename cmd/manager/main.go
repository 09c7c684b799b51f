package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	appledger "github.com/agrisale/manager/internal/application/ledger"
	"github.com/agrisale/manager/internal/domain/shared"
	"github.com/agrisale/manager/internal/infrastructure/config"
	"github.com/agrisale/manager/internal/infrastructure/logger"
	"github.com/agrisale/manager/internal/infrastructure/persistence"
	"github.com/agrisale/manager/internal/infrastructure/remote"
	"github.com/google/uuid"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting manager",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("storage", cfg.Workspace.Storage),
		zap.Int64("workspace", cfg.Workspace.WorkspaceID),
	)

	// Open the embedded database
	gormLogLevel := gormlogger.Warn
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Storage, logger.NewGormLogger(log, gormLogLevel))
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Wire the local backend
	deviceID, err := loadDeviceID(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to load device ID", zap.Error(err))
	}
	recorder := appledger.NewRecorder(deviceID, log.Named("audit"))
	txScope := persistence.NewGormTransactionScope(db.DB)
	repos := persistence.NewRepositories(db.DB)
	local := appledger.NewExecutor(txScope, repos, recorder, log.Named("executor"))

	// Wire the remote backend when a sync server is configured
	var remoteBackend appledger.Backend
	if cfg.Remote.BaseURL != "" {
		tokens := remote.NewStaticTokenSource(cfg.Remote.Token)
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, tokens, log.Named("remote"))
		remoteBackend = remote.NewBackend(client, log.Named("remote"))
	}

	resolver := appledger.NewStaticScopeResolver(appledger.Session{
		Scope: shared.Scope{
			OwnerID:     cfg.Workspace.OwnerID,
			WorkspaceID: cfg.Workspace.WorkspaceID,
		},
		Storage:      appledger.StorageKind(cfg.Workspace.Storage),
		OperatorID:   cfg.Workspace.OperatorID,
		OperatorName: cfg.Workspace.OperatorName,
	})
	service := appledger.NewService(resolver, local, remoteBackend, log.Named("ledger"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodically drop audit entries past the retention window
	go runRetentionSweeper(ctx, service, cfg, log.Named("retention"))

	log.Info("Manager ready", zap.String("device_id", deviceID))
	<-ctx.Done()
	log.Info("Shutting down")
}

// runRetentionSweeper purges expired audit entries on a fixed interval
// until the context is cancelled.
func runRetentionSweeper(ctx context.Context, service *appledger.Service, cfg *config.Config, log *zap.Logger) {
	window := cfg.RetentionWindow()
	ticker := time.NewTicker(cfg.Audit.SweepInterval)
	defer ticker.Stop()

	sweep := func() {
		sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		removed, err := service.PurgeAuditLogs(sweepCtx, window)
		if err != nil {
			log.Warn("Audit retention sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			log.Info("Audit retention sweep done", zap.Int64("removed", removed))
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// loadDeviceID returns this installation's stable device identifier,
// creating it next to the database file on first start.
func loadDeviceID(storagePath string) (string, error) {
	dir := filepath.Dir(storagePath)
	if storagePath == ":memory:" {
		return uuid.NewString(), nil
	}
	path := filepath.Join(dir, "device_id")
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", err
	}
	return id, nil
}
