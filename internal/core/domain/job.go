package domain

import "time"

type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is the observable state of one extraction request. The job store is
// the sole owner of stored values; everything handed to callers is a clone.
type Job struct {
	ID        string        `json:"job_id"`
	Status    JobStatus     `json:"status"`
	Message   string        `json:"message,omitempty"`
	Progress  float64       `json:"progress"`
	Result    *KnowledgeDoc `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewQueuedJob(id string) Job {
	now := time.Now().UTC()
	return Job{
		ID:        id,
		Status:    StatusQueued,
		Message:   "queued",
		Progress:  0.0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether no further transitions may occur.
func (j Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

func (j Job) Clone() Job {
	out := j
	out.Result = j.Result.Clone()
	return out
}

// JobUpdate is a partial-field patch. Nil fields keep the current value;
// the store merges patches copy-on-write under its lock.
type JobUpdate struct {
	Status   *JobStatus
	Message  *string
	Progress *float64
	Result   *KnowledgeDoc
	Error    *string
}

// Apply builds a new record from j with the patch fields overridden.
func (u JobUpdate) Apply(j Job) Job {
	out := j
	if u.Status != nil {
		out.Status = *u.Status
	}
	if u.Message != nil {
		out.Message = *u.Message
	}
	if u.Progress != nil {
		out.Progress = *u.Progress
	}
	if u.Result != nil {
		out.Result = u.Result
	}
	if u.Error != nil {
		out.Error = *u.Error
	}
	out.UpdatedAt = time.Now().UTC()
	return out
}

// ProgressUpdate is the common running-state patch shape used by the runner.
func ProgressUpdate(status JobStatus, message string, progress float64) JobUpdate {
	return JobUpdate{
		Status:   &status,
		Message:  &message,
		Progress: &progress,
	}
}
