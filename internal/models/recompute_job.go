package models

import (
	"time"
)

// Recompute job states. Transitions are monotonic:
// queued -> running -> success | failed. Terminal states are final.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
)

// RecomputeJob tracks one asynchronous reclassification of a site's
// historical events against the current policy and override state.
type RecomputeJob struct {
	ID              uint       `json:"-" gorm:"primaryKey"`
	JobID           string     `json:"job_id" gorm:"uniqueIndex"`
	SiteID          uint       `json:"site_id" gorm:"index"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	EventsProcessed int64      `json:"events_processed"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *RecomputeJob) Terminal() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusFailed
}
