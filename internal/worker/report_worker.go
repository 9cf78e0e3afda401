package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"armancoffee/internal/database"
	"armancoffee/internal/export"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
)

const (
	TaskOrders   = models.ExportTaskOrders
	TaskBookings = models.ExportTaskBookings
)

// ReportWorker consumes queued export tasks and writes XLSX reports.
// Tasks survive restarts in the export_tasks table; the channel only wakes
// the loop early.
type ReportWorker struct {
	db           *database.DB
	exporter     *export.Exporter
	retryPolicy  RetryPolicy
	wake         chan struct{}
	pollInterval time.Duration
	batchSize    int
	logger       *zerolog.Logger
}

func NewReportWorker(db *database.DB, exporter *export.Exporter, retry RetryPolicy, logger *zerolog.Logger) *ReportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 30 * time.Second
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ReportWorker{
		db:           db,
		exporter:     exporter,
		retryPolicy:  retry,
		wake:         make(chan struct{}, 1),
		pollInterval: 5 * time.Second,
		batchSize:    models.ExportQueueSize,
		logger:       logger,
	}
}

// EnqueueExport persists a report request and wakes the worker.
func (w *ReportWorker) EnqueueExport(ctx context.Context, taskType, startDate, endDate string) error {
	if !models.ValidExportTaskType(taskType) {
		return fmt.Errorf("unknown export task type %q", taskType)
	}
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return fmt.Errorf("invalid start date; expected YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", endDate); err != nil {
		return fmt.Errorf("invalid end date; expected YYYY-MM-DD")
	}

	task := &models.ExportTask{
		TaskType:  taskType,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    "pending",
	}
	if err := w.db.CreateExportTask(ctx, task); err != nil {
		return err
	}

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run polls for pending tasks until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.wake:
		case <-ticker.C:
		}
		w.processPending(ctx)
	}
}

func (w *ReportWorker) processPending(ctx context.Context) {
	tasks, err := w.db.GetPendingExportTasks(ctx, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("load pending export tasks")
		return
	}

	for _, task := range tasks {
		if err := w.processTask(ctx, task); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("export task failed")
		}
	}
}

// processTask runs one task with in-process retries; the task ends up
// completed or failed.
func (w *ReportWorker) processTask(ctx context.Context, task models.ExportTask) error {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.runExport(ctx, task)
		if lastErr == nil {
			return w.db.UpdateExportTaskStatus(ctx, task.ID, "completed", "")
		}
		if errors.Is(lastErr, context.Canceled) {
			return lastErr
		}

		_ = w.db.UpdateExportTaskStatus(ctx, task.ID, "retry", lastErr.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	_ = w.db.UpdateExportTaskStatus(ctx, task.ID, "failed", lastErr.Error())
	return lastErr
}

func (w *ReportWorker) runExport(ctx context.Context, task models.ExportTask) error {
	switch task.TaskType {
	case TaskOrders:
		orders, err := w.db.ListOrdersByDateRange(ctx, task.StartDate, task.EndDate)
		if err != nil {
			return err
		}
		path, err := w.exporter.OrdersReport(orders, task.StartDate, task.EndDate)
		if err != nil {
			return err
		}
		w.logger.Info().Str("path", path).Int("orders", len(orders)).Msg("orders report written")
		return nil
	case TaskBookings:
		bookings, err := w.db.ListBookingsByDateRange(ctx, task.StartDate, task.EndDate)
		if err != nil {
			return err
		}
		path, err := w.exporter.BookingsReport(bookings, task.StartDate, task.EndDate)
		if err != nil {
			return err
		}
		w.logger.Info().Str("path", path).Int("bookings", len(bookings)).Msg("bookings report written")
		return nil
	default:
		return fmt.Errorf("unknown export task type %q", task.TaskType)
	}
}
