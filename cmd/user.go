package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"
)

// UserCreate registers a user. The password is hashed with bcrypt before it reaches the store.
func (r *Runner) UserCreate(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")
	if username == "" || password == "" {
		return fmt.Errorf("%w: --username and --password are required", shared.ErrMissingArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: failed to hash password: %w", shared.ErrInvalidArgument, err)
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	user, err := store.CreateUser(models.InsertUser{Username: username, Password: string(hash)})
	if errors.Is(err, shared.ErrUniqueConstraint) {
		return fmt.Errorf("username %q is already taken: %w", username, err)
	}
	if err != nil {
		return err
	}

	r.logger.Info("created user", "id", user.ID, "username", user.Username)
	return r.writePlain("✓ Created user %s (ID: %d)\n", user.Username, user.ID)
}

// UserShow prints a user looked up by --id or --username.
func (r *Runner) UserShow(ctx context.Context, cmd *cli.Command) error {
	user, err := r.lookupUser(cmd)
	if err != nil {
		return err
	}
	return r.writeJSON(user, true)
}

// UserVerify checks a password against the stored hash.
func (r *Runner) UserVerify(ctx context.Context, cmd *cli.Command) error {
	password := cmd.String("password")
	if password == "" {
		return fmt.Errorf("%w: --password is required", shared.ErrMissingArgument)
	}

	user, err := r.lookupUser(cmd)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		r.logger.Debug("password mismatch", "id", user.ID, "error", err)
		return fmt.Errorf("%w: password does not match", shared.ErrInvalidArgument)
	}

	return r.writePlain("✓ Password matches for %s\n", user.Username)
}

func (r *Runner) lookupUser(cmd *cli.Command) (*models.User, error) {
	byID := cmd.IsSet("id")
	byName := cmd.String("username") != ""

	switch {
	case byID && byName:
		return nil, fmt.Errorf("%w: use either --id or --username", shared.ErrInvalidArgument)
	case !byID && !byName:
		return nil, fmt.Errorf("%w: --id or --username is required", shared.ErrMissingArgument)
	}

	store, err := r.openStore()
	if err != nil {
		return nil, err
	}

	var user *models.User
	if byID {
		user, err = store.GetUser(cmd.Int64("id"))
	} else {
		user, err = store.GetUserByUsername(cmd.String("username"))
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrUserNotFound
	}
	return user, nil
}
