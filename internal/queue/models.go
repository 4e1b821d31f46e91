package queue

import (
	"encoding/json"
	"time"

	"batchmux/internal/mediakit"
)

// Status is the lifecycle state of one ledger row.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusStopped    Status = "stopped"
)

// ActiveStatuses lists the states a run still owns.
var ActiveStatuses = []Status{StatusQueued, StatusProcessing}

// Item is one persisted mux job.
type Item struct {
	ID              int64
	JobID           string
	VideoPath       string
	OutputPath      string
	Status          Status
	ProgressPercent float64
	OutputSize      int64
	Message         string
	Warnings        []string
	requestJSON     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Request decodes the job request snapshot stored with the row.
func (i *Item) Request() (mediakit.JobRequest, error) {
	var req mediakit.JobRequest
	if i.requestJSON == "" {
		return req, nil
	}
	err := json.Unmarshal([]byte(i.requestJSON), &req)
	return req, err
}

// HealthSummary aggregates row counts per lifecycle bucket.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Errored    int
	Stopped    int
}
