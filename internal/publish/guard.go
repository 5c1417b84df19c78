package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"pilotcast/internal/fileutil"
	"pilotcast/internal/logging"
	"pilotcast/internal/services"
	"pilotcast/internal/staging"
)

// ErrBusy reports that another build holds the asset lock.
var ErrBusy = errors.New("publish lock held by another build")

const backupStampLayout = "20060102T150405Z"

// BuildFunc renders the new asset inside scratchDir and returns its path.
type BuildFunc func(ctx context.Context, scratchDir string) (string, error)

// Options configures a Guard.
type Options struct {
	// Asset is the published file that builds replace.
	Asset string
	// StagingDir is the root for per-run scratch directories.
	StagingDir string
	// KeepBackup retains the pre-publish snapshot after a successful commit.
	KeepBackup bool
	Logger     *slog.Logger
}

// Result describes a committed publish.
type Result struct {
	Path       string
	BackupPath string
	RunID      string
	SizeBytes  int64
	Replaced   bool
}

// Guard owns the publish protocol for one asset.
type Guard struct {
	asset      string
	stagingDir string
	keepBackup bool
	// lockPath lives under the staging root so only the asset and its
	// backups land beside the asset.
	lockPath   string
	logger     *slog.Logger
	now        func() time.Time
}

// New validates opts and returns a Guard.
func New(opts Options) (*Guard, error) {
	asset := strings.TrimSpace(opts.Asset)
	if asset == "" {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "init", "asset path is required", nil)
	}
	if strings.TrimSpace(opts.StagingDir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "init", "staging dir is required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Guard{
		asset:      asset,
		stagingDir: opts.StagingDir,
		keepBackup: opts.KeepBackup,
		lockPath:   filepath.Join(opts.StagingDir, filepath.Base(asset)+".lock"),
		logger:     logging.NewComponentLogger(logger, "publish"),
		now:        time.Now,
	}, nil
}

// Publish runs build in a fresh scratch directory and, when it succeeds,
// swaps the produced file into place. The scratch directory is removed on
// every path out.
func (g *Guard) Publish(ctx context.Context, build BuildFunc) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(g.asset), 0o755); err != nil {
		return Result{}, fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.MkdirAll(g.stagingDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create staging dir: %w", err)
	}
	lock := flock.New(g.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire publish lock: %w", err)
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrBusy, g.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			g.logger.Warn("failed to release publish lock",
				logging.String("lock", g.lockPath),
				logging.Error(err),
				logging.String(logging.FieldEventType, "publish_unlock_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no build is running"),
				logging.String(logging.FieldImpact, "next build may report the asset as busy"),
			)
		}
	}()

	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
	}
	scratch, err := staging.NewRunDir(g.stagingDir, runID)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			g.logger.Warn("failed to remove scratch directory",
				logging.String("path", scratch),
				logging.Error(err),
				logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "check paths.staging_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}()

	produced, err := build(ctx, scratch)
	if err != nil {
		return Result{}, err
	}
	info, err := os.Stat(produced)
	if err != nil {
		return Result{}, services.Wrap(services.ErrIntegrity, "publish", "verify", "build output missing", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return Result{}, services.Wrap(services.ErrIntegrity, "publish", "verify",
			fmt.Sprintf("build output %s is empty", produced), nil)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return g.commit(produced, runID, info.Size())
}

func (g *Guard) commit(produced, runID string, size int64) (Result, error) {
	result := Result{Path: g.asset, RunID: runID, SizeBytes: size}

	if _, err := os.Stat(g.asset); err == nil {
		result.Replaced = true
		result.BackupPath = g.asset + ".bak-" + g.now().UTC().Format(backupStampLayout)
		if err := fileutil.CopyFileVerified(g.asset, result.BackupPath); err != nil {
			_ = os.Remove(result.BackupPath)
			return Result{}, services.Wrap(services.ErrIntegrity, "publish", "backup", g.asset, err)
		}
	} else if !os.IsNotExist(err) {
		return Result{}, fmt.Errorf("stat asset: %w", err)
	}

	if err := fileutil.ReplaceFileAtomic(produced, g.asset, 0o644); err != nil {
		if result.BackupPath != "" {
			_ = os.Remove(result.BackupPath)
		}
		return Result{}, services.Wrap(services.ErrIntegrity, "publish", "replace", g.asset, err)
	}

	if result.BackupPath != "" && !g.keepBackup {
		if err := os.Remove(result.BackupPath); err != nil {
			logging.WarnWithContext(g.logger, "failed to remove backup", "publish_backup_cleanup_failed",
				logging.String("backup", result.BackupPath),
				logging.Error(err),
			)
		}
		result.BackupPath = ""
	}

	g.logger.Info("published asset",
		logging.String("path", g.asset),
		logging.String("size", humanize.Bytes(uint64(size))),
		logging.Bool("replaced", result.Replaced),
		logging.String("backup", result.BackupPath),
		logging.String(logging.FieldEventType, "publish_committed"),
	)
	return result, nil
}
