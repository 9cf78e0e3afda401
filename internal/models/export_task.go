package models

import "time"

// ExportTask describes a queued XLSX report request processed by the
// report worker.
type ExportTask struct {
	ID        int64      `json:"id"`
	TaskType  string     `json:"task_type"` // orders, bookings
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Status    string     `json:"status"` // pending, retry, completed, failed
	Retries   int64      `json:"retries"`
	LastError string     `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}
