package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"armancoffee/internal/models"
)

func (db *DB) CreateExportTask(ctx context.Context, task *models.ExportTask) error {
	ts := now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO export_tasks (task_type, start_date, end_date, status, retries, last_error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.TaskType, task.StartDate, task.EndDate, task.Status, task.Retries, task.LastError, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to create export task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	task.CreatedAt = ts
	return nil
}

func (db *DB) GetPendingExportTasks(ctx context.Context, limit int) ([]models.ExportTask, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, task_type, start_date, end_date, status, retries, last_error, created_at, done_at
         FROM export_tasks WHERE status IN ('pending', 'retry')
         ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending export tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.ExportTask
	for rows.Next() {
		var (
			t         models.ExportTask
			lastError sql.NullString
			doneAt    sql.NullTime
		)
		err := rows.Scan(&t.ID, &t.TaskType, &t.StartDate, &t.EndDate, &t.Status, &t.Retries, &lastError, &t.CreatedAt, &doneAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export task: %w", err)
		}
		t.LastError = lastError.String
		if doneAt.Valid {
			t.DoneAt = &doneAt.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (db *DB) UpdateExportTaskStatus(ctx context.Context, id int64, status, errMsg string) error {
	var (
		query string
		args  []any
	)
	switch status {
	case "retry":
		query = `UPDATE export_tasks SET status = ?, last_error = ?, retries = retries + 1 WHERE id = ?`
		args = []any{status, errMsg, id}
	case "completed", "failed":
		doneAt := time.Now()
		query = `UPDATE export_tasks SET status = ?, last_error = ?, done_at = ? WHERE id = ?`
		args = []any{status, errMsg, doneAt, id}
	default:
		query = `UPDATE export_tasks SET status = ?, last_error = ? WHERE id = ?`
		args = []any{status, errMsg, id}
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update export task status: %w", err)
	}
	return nil
}
