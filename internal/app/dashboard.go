package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
	"github.com/okian/skillview/pkg/logger"
)

// SessionStore is the part of the credential store the dashboard uses.
type SessionStore interface {
	Save(ctx context.Context, username, password string) error
	Username(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Dashboard owns the three controllers and the session lifecycle.
type Dashboard struct {
	Projects *Projects
	Skills   *Skills
	Quiz     *Quiz

	api   API
	store SessionStore
	ui    ui.UI
	s     settings
}

// NewDashboard wires the controllers against one API client and UI.
func NewDashboard(client API, store SessionStore, u ui.UI, opts ...Option) *Dashboard {
	skills := NewSkills(client, u, opts...)
	quiz := NewQuiz(client, u, skills, opts...)
	skills.quiz = quiz
	s := newSettings(opts)
	s.log = s.log.Named("dashboard")
	return &Dashboard{
		Projects: NewProjects(client, u, skills, opts...),
		Skills:   skills,
		Quiz:     quiz,
		api:      client,
		store:    store,
		ui:       u,
		s:        s,
	}
}

// Load renders the greeting and both lists. Without stored credentials it
// navigates to login and renders nothing.
func (d *Dashboard) Load(ctx context.Context) error {
	name, err := d.store.Username(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoCredentials) {
			err = api.ErrUnauthenticated
		}
		d.ui.ToLogin(ctx)
		return err
	}
	mount(ctx, d.ui, d.s, ui.SlotUser, view.UserHeader(name))
	return d.ReloadAll(ctx)
}

// ReloadAll refreshes projects and skills concurrently and returns once
// both are done. Each failure is handled by its own controller.
func (d *Dashboard) ReloadAll(ctx context.Context) error {
	return reloadConcurrently(ctx, d.Projects, d.Skills)
}

// Login stores the credentials and verifies them against the API. Rejected
// credentials are not kept.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	if err := d.store.Save(ctx, username, password); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if _, err := d.api.CheckAuth(ctx); err != nil {
		if clearErr := d.store.Clear(ctx); clearErr != nil {
			d.s.log.Error(ctx, "failed to clear rejected credentials", logger.Error(clearErr))
		}
		d.s.log.Warn(ctx, "login rejected", logger.String("username", username), logger.Error(err))
		return err
	}
	d.s.log.Info(ctx, "logged in", logger.String("username", username))
	return nil
}

// Logout clears the credentials and returns to the entry view.
func (d *Dashboard) Logout(ctx context.Context) error {
	d.Quiz.Close(ctx)
	if err := d.store.Clear(ctx); err != nil {
		d.s.log.Error(ctx, "logout failed", logger.Error(err))
		return err
	}
	d.s.log.Info(ctx, "logged out")
	d.ui.ToEntry(ctx)
	return nil
}
