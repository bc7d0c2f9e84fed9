// Package activity records what carfront did on behalf of its users:
// every car created or deleted through the pages is logged locally.
package activity

import (
	"context"
	"time"
)

// Action describes what was done.
type Action string

const (
	ActionCarCreated Action = "car_created"
	ActionCarDeleted Action = "car_deleted"
)

// Entry is a single activity record.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	CarID      string    `json:"car_id"`
	Summary    string    `json:"summary"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Recorder is the write side of the log, as used by the page controller.
type Recorder interface {
	Log(ctx context.Context, entry Entry) error
}
