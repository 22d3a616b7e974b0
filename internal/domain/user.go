// internal/domain/user.go
package domain

import "time"

// User is the minimal identity record the ledger needs. Authentication and
// session issuance live outside this service; callers arrive with a resolved
// user ID and the ledger only re-checks ownership at the data level.
type User struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	Username  string    `db:"username" json:"username"`     // Unique username
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewUser creates a new User instance.
func NewUser(username string) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
