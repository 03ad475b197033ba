package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleWorker Role = "WORKER"
)

// IsValid reports whether the role is one of the known role values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleWorker:
		return true
	default:
		return false
	}
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the public projection of a user embedded in responses.
type UserSummary struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserWithCount is a user row annotated with the number of
// reclamations the user owns.
type UserWithCount struct {
	User
	ReclamationCount int `db:"reclamation_count" json:"reclamationCount"`
}

// RecentUser is the projection used by the admin overview statistic.
type RecentUser struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UserStats is the admin overview statistic.
type UserStats struct {
	TotalUsers  int          `json:"totalUsers"`
	AdminUsers  int          `json:"adminUsers"`
	WorkerUsers int          `json:"workerUsers"`
	RecentUsers []RecentUser `json:"recentUsers"`
}

// Claims defines the structure of the JWT claims. The registered
// subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}
