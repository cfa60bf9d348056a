// Package ui declares the capabilities controllers use to talk to whatever
// is presenting them: notices, navigation and the mounted fragments.
package ui

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// Kind classifies a notice.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Failure Kind = "danger"
)

// Notifier surfaces messages and asks for confirmation.
type Notifier interface {
	Notify(ctx context.Context, message string, kind Kind)
	Confirm(ctx context.Context, message string) bool
}

// Navigator leaves the dashboard.
type Navigator interface {
	ToLogin(ctx context.Context)
	ToEntry(ctx context.Context)
}

// Slot names a mount point on the page.
type Slot string

const (
	SlotUser     Slot = "usernameDisplay"
	SlotProjects Slot = "projectsContainer"
	SlotSkills   Slot = "skillsContainer"
	SlotQuiz     Slot = "quizContent"
	SlotQuizHead Slot = "quizModalTitle"
)

// Well-known control ids.
const (
	UploadForm     = "uploadForm"
	UploadProgress = "uploadProgress"
)

// DeleteButton is the id of a project's delete control.
func DeleteButton(projectID int64) string {
	return "delete-btn-" + strconv.FormatInt(projectID, 10)
}

// ControlState is the interactive state of one control.
type ControlState struct {
	Disabled bool
	Label    string
}

// Surface holds the mounted fragments and control states.
type Surface interface {
	Mount(ctx context.Context, slot Slot, c templ.Component) error
	SetControl(ctx context.Context, id string, state ControlState)
	ResetForm(ctx context.Context, id string)
	Show(ctx context.Context, id string, visible bool)
}

// UI bundles the three capabilities.
type UI struct {
	Notifier
	Navigator
	Surface
}
