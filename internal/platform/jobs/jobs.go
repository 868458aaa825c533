// Package jobs provides a small Redis-backed job queue and a job-name lock
// for the standalone batch commands.
package jobs

// Job types understood by the worker.
const (
	TypeTaskReport = "task_report"
)

// Job is one unit of background work.
type Job struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
}
