package model

import (
	"time"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated caller of a request. A nil *Identity means
// the request carried no valid credentials.
type Identity struct {
	ID      string
	IsAdmin bool
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, IsAdmin: u.IsAdmin}
}
