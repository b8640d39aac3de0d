// Package session reads the signed-in user's identity. The session store
// exposes a single readable key, "user", holding a JSON object; session
// lifecycle (login, logout) is owned elsewhere.
package session

import (
	"encoding/json"
	"fmt"
)

// UserKey is the session store key holding the signed-in user.
const UserKey = "user"

// User is the identity attached to a session.
type User struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

// ParseUser decodes the raw JSON value stored under UserKey.
func ParseUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("invalid session user value: %w", err)
	}
	if u.Email == "" {
		return User{}, fmt.Errorf("session user has no email")
	}
	return u, nil
}
