// Package auth implements the single-user login gate.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator checks the configured credential pair and persists the
// resulting AuthState. The password is only kept as a bcrypt hash.
type Authenticator struct {
	username string
	hash     []byte
	repo     *storage.AuthRepository
	logger   *log.Logger
}

// New hashes password with cost. A cost of 0 uses bcrypt.DefaultCost.
func New(username, password string, cost int, repo *storage.AuthRepository, logger *log.Logger) (*Authenticator, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Authenticator{
		username: strings.TrimSpace(username),
		hash:     hash,
		repo:     repo,
		logger:   logger.WithComponent(log.ComponentAuth),
	}, nil
}

// Login verifies the pair and stores an authenticated state on success.
func (a *Authenticator) Login(ctx context.Context, username, password string) (core.AuthState, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		a.logger.WarnContext(ctx, "Login rejected", log.FieldUsername, username)
		return core.AuthState{}, ErrInvalidCredentials
	}

	state := core.AuthState{IsAuthenticated: true, Username: a.username}
	if err := a.repo.Save(ctx, state); err != nil {
		return core.AuthState{}, fmt.Errorf("save auth state: %w", err)
	}
	a.logger.InfoContext(ctx, "User logged in", log.FieldUsername, a.username)
	return state, nil
}

// Logout clears the stored state.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear auth state: %w", err)
	}
	a.logger.InfoContext(ctx, "User logged out")
	return nil
}

// State returns the stored state. A state that cannot be read counts as
// logged out.
func (a *Authenticator) State(ctx context.Context) core.AuthState {
	state, err := a.repo.Get(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Could not read auth state", log.FieldError, err)
		return core.AuthState{}
	}
	return state
}

func (a *Authenticator) IsAuthenticated(ctx context.Context) bool {
	return a.State(ctx).IsAuthenticated
}
