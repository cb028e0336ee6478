package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/quartz"
)

// RotationWorkerConfig holds configuration for the rotation worker.
type RotationWorkerConfig struct {
	CheckInterval time.Duration // How often due-ness is checked
	IntervalDays  int           // Rotation interval; <= 0 disables rotation
}

// RotationWorker periodically asks the rotator whether the active key is due
// for rotation.
type RotationWorker struct {
	rotator KeyRotator
	clock   quartz.Clock
	config  RotationWorkerConfig
	logger  *slog.Logger
}

// NewRotationWorker creates a new RotationWorker.
func NewRotationWorker(
	rotator KeyRotator,
	clock quartz.Clock,
	config RotationWorkerConfig,
	logger *slog.Logger,
) *RotationWorker {
	return &RotationWorker{
		rotator: rotator,
		clock:   clock,
		config:  config,
		logger:  logger,
	}
}

// Start runs one check immediately and then one per CheckInterval until ctx is
// done. It always returns a non-nil error, ctx.Err() on a clean shutdown.
func (w *RotationWorker) Start(ctx context.Context) error {
	if w.config.IntervalDays <= 0 || w.config.CheckInterval <= 0 {
		w.logger.Info("key rotation disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	w.logger.Info("starting key rotation worker",
		slog.Duration("check_interval", w.config.CheckInterval),
		slog.Int("interval_days", w.config.IntervalDays),
	)

	w.Check(ctx)
	err := w.clock.TickerFunc(ctx, w.config.CheckInterval, func() error {
		w.Check(ctx)
		return nil
	}, "rotation").Wait()

	w.logger.Info("stopping key rotation worker")
	return err
}

// Check runs a single rotation check. Failures are logged, never returned, so a
// transient disk error does not stop later checks.
func (w *RotationWorker) Check(ctx context.Context) {
	rotated, err := w.rotator.RotateIfDue(ctx, w.clock.Now(), w.config.IntervalDays)
	if err != nil {
		w.logger.Error("key rotation check failed", slog.Any("error", err))
		return
	}
	if rotated {
		w.logger.Info("key rotation completed by worker")
	}
}
