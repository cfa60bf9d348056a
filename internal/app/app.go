// Package app holds the view controllers: they call the API, own the
// last-fetched lists and the active quiz session, and mount views through
// the ui capabilities.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/a-h/templ"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/ingest"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/pkg/logger"
)

// ProjectAPI is what the project controller needs from the API.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	UploadProject(ctx context.Context, req model.UploadRequest) (model.UploadAck, error)
	DeleteProject(ctx context.Context, id int64) (string, error)
}

// SkillAPI is what the skill controller needs from the API.
type SkillAPI interface {
	ListSkills(ctx context.Context) ([]model.Skill, error)
}

// QuizAPI is what the quiz controller needs from the API.
type QuizAPI interface {
	GenerateQuiz(ctx context.Context, skillID int64) (model.Quiz, error)
	SubmitQuiz(ctx context.Context, sub model.QuizSubmission) (model.QuizResult, error)
	LatestResult(ctx context.Context, skillID int64) (model.QuizResult, error)
}

// API is the full remote surface used by the dashboard.
type API interface {
	ProjectAPI
	SkillAPI
	QuizAPI
	CheckAuth(ctx context.Context) (string, error)
}

// Refresher reloads one list.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// handleAuth navigates away for authentication failures and reports
// whether it did.
func handleAuth(ctx context.Context, u ui.UI, err error) bool {
	switch {
	case errors.Is(err, api.ErrUnauthenticated):
		u.ToLogin(ctx)
		return true
	case errors.Is(err, api.ErrSessionExpired):
		u.ToEntry(ctx)
		return true
	}
	return false
}

// describe is the user-facing reason for err.
func describe(err error) string {
	if errors.Is(err, ingest.ErrRead) {
		return err.Error()
	}
	return api.Message(err)
}

// reloadConcurrently runs every refresh at once and waits for all of them.
// Each refresher handles its own failure.
func reloadConcurrently(ctx context.Context, rs ...Refresher) error {
	errs := make([]error, len(rs))
	var wg sync.WaitGroup
	for i, r := range rs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.Refresh(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func mount(ctx context.Context, u ui.UI, s settings, slot ui.Slot, c templ.Component) {
	if err := u.Mount(ctx, slot, c); err != nil {
		s.log.Error(ctx, "failed to mount view", logger.String("slot", string(slot)), logger.Error(err))
		return
	}
	s.rendered(string(slot))
}
