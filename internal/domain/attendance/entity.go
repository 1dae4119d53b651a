package attendance

import "time"

// EventType distinguishes check-in from check-out. The integer values are
// the wire values the backend expects.
type EventType int

const (
	EventCheckIn  EventType = 0
	EventCheckOut EventType = 1
)

func (t EventType) String() string {
	switch t {
	case EventCheckIn:
		return "check_in"
	case EventCheckOut:
		return "check_out"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventCheckIn || t == EventCheckOut
}

// Log is a confirmed, server-accepted attendance event. Immutable once
// created; identity is the server-issued id.
type Log struct {
	ID                  string     `json:"id"`
	CompanyID           string     `json:"companyId"`
	PersonnelID         string     `json:"crmPersonnelId"`
	WorkplaceLocationID string     `json:"workplaceLocationId"`
	EventType           EventType  `json:"eventType"`
	Timestamp           time.Time  `json:"timestamp"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	AccuracyMeters      *float64   `json:"accuracyInMeters,omitempty"`
	DeviceInfo          *string    `json:"deviceInfo,omitempty"`
	IsManual            bool       `json:"isManual"`
	Note                *string    `json:"note,omitempty"`
	IsSynced            bool       `json:"isSynced"`
	SyncedAt            *time.Time `json:"syncedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// PendingLog is an offline-queue entry: the payload that would have been
// submitted, under a locally generated id. Entries are never mutated in
// place; one leaves the queue only after a confirmed submission.
type PendingLog struct {
	ID        string           `json:"id"`
	Request   CreateLogRequest `json:"request"`
	CreatedAt time.Time        `json:"createdAt"`
}
