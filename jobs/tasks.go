package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeStorageSweep is the task type for removing orphaned upload files.
	TaskTypeStorageSweep = "storage:sweep"
)

// StorageSweepPayload tunes a sweep run. MinAge guards files that an
// in-flight request may still be about to commit; zero applies the default.
type StorageSweepPayload struct {
	MinAgeHours int `json:"min_age_hours"`
}

// NewStorageSweepTask constructs an Asynq task.
func NewStorageSweepTask(payload StorageSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeStorageSweep, data), nil
}
