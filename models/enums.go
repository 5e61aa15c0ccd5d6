package models

// EventType discriminates the variant stored in the events table.
type EventType string

const (
	EventTypeRing EventType = "RING"
	EventTypeBox  EventType = "BOX"
	EventTypeGeo  EventType = "GEO"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}
