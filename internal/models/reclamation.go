package models

import "time"

// Status is the lifecycle state of a reclamation. Every reclamation
// starts PENDING; only administrators move it elsewhere.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusResolved Status = "RESOLVED"
	StatusRejected Status = "REJECTED"
)

// AllStatuses lists every status in the order stats are reported.
var AllStatuses = []Status{StatusPending, StatusResolved, StatusRejected}

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

type Reclamation struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	FileURL     *string   `db:"file_url" json:"fileUrl"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
	UserID      string    `db:"user_id" json:"userId"`
}

// ReclamationWithUser is a reclamation annotated with its owner's
// public identity, as returned to administrators.
type ReclamationWithUser struct {
	Reclamation
	User UserSummary `json:"user"`
}

// ReclamationSummary is the projection embedded in the admin view of
// a single user.
type ReclamationSummary struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StatusCount is one entry of the reclamation statistics.
type StatusCount struct {
	Status Status `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}
