package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/ingest"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

// User-facing messages.
const (
	MsgSelectFiles    = "Please select files"
	MsgUploaded       = "Project uploaded and analyzed successfully!"
	MsgConfirmDelete  = "Are you sure you want to delete this project? All associated skills will also be deleted."
	MsgDeleted        = "Project deleted successfully!"
	msgUploadFailed   = "Upload failed: "
	msgDeleteFailed   = "Failed to delete project: "
	msgProjectsFailed = "Failed to load projects: "
)

// UploadForm is what the user filled in.
type UploadForm struct {
	Name        string
	Description string
	Files       []ingest.Source
}

// Projects owns the project list.
type Projects struct {
	api    ProjectAPI
	ui     ui.UI
	skills Refresher
	s      settings

	mu       sync.RWMutex
	projects []model.Project
}

// NewProjects creates the project controller. skills is reloaded alongside
// the project list after every mutation.
func NewProjects(client ProjectAPI, u ui.UI, skills Refresher, opts ...Option) *Projects {
	s := newSettings(opts)
	s.log = s.log.Named("projects")
	return &Projects{api: client, ui: u, skills: skills, s: s}
}

// Refresh fetches the list and re-renders it wholesale.
func (p *Projects) Refresh(ctx context.Context) error {
	list, err := p.api.ListProjects(ctx)
	if err != nil {
		if handleAuth(ctx, p.ui, err) {
			return err
		}
		p.s.log.Error(ctx, "failed to load projects", logger.Error(err))
		p.ui.Notify(ctx, msgProjectsFailed+describe(err), ui.Failure)
		return err
	}

	p.mu.Lock()
	p.projects = list
	p.mu.Unlock()

	mount(ctx, p.ui, p.s, ui.SlotProjects, view.ProjectList(list))
	return nil
}

// Snapshot returns a copy of the last fetched list.
func (p *Projects) Snapshot() []model.Project {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Project(nil), p.projects...)
}

// Upload validates, reads and sends a project, then reloads both lists.
func (p *Projects) Upload(ctx context.Context, form UploadForm) error {
	n := len(form.Files)
	if n == 0 {
		return p.reject(ctx, MsgSelectFiles)
	}
	if n > p.s.maxFiles {
		return p.reject(ctx, fmt.Sprintf("Maximum %d files allowed", p.s.maxFiles))
	}

	p.s.log.Info(ctx, "uploading project", logger.String("name", form.Name), logger.Int("files", n))
	p.ui.Show(ctx, ui.UploadProgress, true)

	err := p.upload(ctx, form)
	p.ui.Show(ctx, ui.UploadProgress, false)
	if err != nil {
		p.s.upload(metrics.OutcomeFailed, n)
		if handleAuth(ctx, p.ui, err) {
			return err
		}
		p.s.log.Warn(ctx, "upload failed", logger.Error(err))
		p.ui.Notify(ctx, msgUploadFailed+describe(err), ui.Failure)
		return err
	}

	p.s.upload(metrics.OutcomeSuccess, n)
	p.ui.Notify(ctx, MsgUploaded, ui.Success)
	p.ui.ResetForm(ctx, ui.UploadForm)
	_ = p.reloadAll(ctx)
	return nil
}

func (p *Projects) upload(ctx context.Context, form UploadForm) error {
	files, err := ingest.ReadAll(ctx, form.Files)
	if err != nil {
		return err
	}
	ack, err := p.api.UploadProject(ctx, model.UploadRequest{
		ProjectName: form.Name,
		Description: form.Description,
		Files:       files,
	})
	if err != nil {
		return err
	}
	p.s.log.Debug(ctx, "upload acknowledged", logger.Int("skills", len(ack.Skills)), logger.String("message", ack.Message))
	return nil
}

func (p *Projects) reject(ctx context.Context, msg string) error {
	p.s.validationFailed("upload")
	p.ui.Notify(ctx, msg, ui.Failure)
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Remove deletes a project after confirmation. A declined confirmation is
// not an error.
func (p *Projects) Remove(ctx context.Context, id int64) error {
	if !p.ui.Confirm(ctx, MsgConfirmDelete) {
		p.s.log.Debug(ctx, "delete cancelled", logger.Int64("project", id))
		return nil
	}

	control := ui.DeleteButton(id)
	p.ui.SetControl(ctx, control, ui.ControlState{Disabled: true, Label: view.DeletingLabel})

	if _, err := p.api.DeleteProject(ctx, id); err != nil {
		if handleAuth(ctx, p.ui, err) {
			return err
		}
		p.s.log.Warn(ctx, "delete failed", logger.Int64("project", id), logger.Error(err))
		p.ui.SetControl(ctx, control, ui.ControlState{Disabled: false, Label: view.DeleteLabel})
		p.ui.Notify(ctx, msgDeleteFailed+describe(err), ui.Failure)
		return err
	}

	p.s.log.Info(ctx, "project deleted", logger.Int64("project", id))
	p.ui.Notify(ctx, MsgDeleted, ui.Success)
	_ = p.reloadAll(ctx)
	return nil
}

func (p *Projects) reloadAll(ctx context.Context) error {
	if p.skills == nil {
		return p.Refresh(ctx)
	}
	return reloadConcurrently(ctx, p, p.skills)
}
