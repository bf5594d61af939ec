package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrStorage          = fmt.Errorf("storage failure")
	ErrUniqueConstraint = fmt.Errorf("unique constraint violation")
	ErrDecode           = fmt.Errorf("decode failure")
	ErrNoMigrations     = fmt.Errorf("no migrations found")

	// Track workflow errors
	ErrInvalidStatus     = fmt.Errorf("invalid status")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	ErrInvalidSettings   = fmt.Errorf("invalid processing settings")
	ErrTrackNotFound     = fmt.Errorf("track not found")
	ErrUserNotFound      = fmt.Errorf("user not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
