package models

import "time"

type User struct {
	ID           int64  `db:"id" json:"id"`
	Login        string `db:"login" json:"login"`
	PasswordHash string `db:"password_hash" json:"password_hash"`
	DisplayName  string `db:"display_name" json:"display_name"`
	Bio          string `db:"bio" json:"bio"`
}

// PublicUser is the only user shape handed to templates. It never
// carries the credential hash.
type PublicUser struct {
	ID          int64  `db:"id"`
	Login       string `db:"login"`
	DisplayName string `db:"display_name"`
	Bio         string `db:"bio"`
}

func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Login: u.Login, DisplayName: u.DisplayName, Bio: u.Bio}
}

type Session struct {
	ID        string    `db:"id"`
	UserJSON  string    `db:"user_json"`
	ExpiresAt time.Time `db:"expires_at"`
}
