package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/extendr/internal/shared"
)

// User is a registered account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// InsertUser is the registration payload for a new [User].
type InsertUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that username and password are present.
func (u InsertUser) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if u.Password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrInvalidInput)
	}
	return nil
}
