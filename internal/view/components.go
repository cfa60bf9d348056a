package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/okian/skillview/internal/domain/model"
)

// Fixed copy.
const (
	NoProjects       = "No projects uploaded yet."
	NoSkills         = "No skills extracted yet. Upload a project to get started!"
	NoDescription    = "No description"
	LoadingTitle     = "Generating quiz questions..."
	LoadingSubtitle  = "This may take up to 30 seconds"
	QuizFailedTitle  = "Failed to generate quiz"
	ResultFailed     = "Failed to load result"
	QuizCompleteText = "Quiz Complete!"
	DeleteLabel      = "Delete"
	DeletingLabel    = "Deleting..."
)

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(h)
		return h.err
	})
}

func itoa[T ~int | ~int64](n T) string { return strconv.FormatInt(int64(n), 10) }

// UserHeader greets the logged-in user.
func UserHeader(username string) templ.Component {
	return component(func(h *htmlWriter) {
		if username == "" {
			return
		}
		h.raw("Welcome, ", Escape(username))
	})
}

// ProjectList renders every project card, or the empty placeholder.
func ProjectList(projects []model.Project) templ.Component {
	return component(func(h *htmlWriter) {
		if len(projects) == 0 {
			h.raw(`<p class="text-muted">`, NoProjects, `</p>`)
			return
		}
		for _, p := range projects {
			id := itoa(p.ID)
			desc := p.Description
			if desc == "" {
				desc = NoDescription
			}
			h.raw(`<div class="card project-card mb-3" id="project-`, id, `"><div class="card-body">`,
				`<div class="d-flex justify-content-between align-items-start"><div>`,
				`<h5 class="card-title">`, Escape(p.Name), `</h5>`,
				`<p class="card-text">`, Escape(desc), `</p>`,
				`<small class="text-muted">Uploaded: `, FormatDate(p.UploadedAt),
				` | Files: `, itoa(p.TotalFiles),
				` | Size: `, itoa(p.TotalSizeKB), ` KB</small></div>`)
			h.raw(DeleteButton(p.ID, false, DeleteLabel))
			h.raw(`</div></div></div>`)
		}
	})
}

// DeleteButton renders a project's delete control in the given state.
func DeleteButton(projectID int64, disabled bool, label string) string {
	id := itoa(projectID)
	attr := ""
	if disabled {
		attr = " disabled"
	}
	return `<button class="btn btn-sm btn-outline-danger" id="delete-btn-` + id + `"` +
		` hx-delete="/projects/` + id + `" hx-swap="none"` +
		` hx-confirm="Are you sure you want to delete this project? All associated skills will also be deleted."` +
		` hx-disabled-elt="this"` + attr + `>` + Escape(label) + `</button>`
}

// SkillList renders skills grouped by category, or the empty placeholder.
// Unknown levels get the UNKNOWN badge.
func SkillList(skills []model.Skill) templ.Component {
	return component(func(h *htmlWriter) {
		if len(skills) == 0 {
			h.raw(`<p class="text-muted">`, NoSkills, `</p>`)
			return
		}
		for _, g := range GroupByCategory(skills) {
			h.raw(`<div class="category-section"><div class="category-header"><h5 class="mb-0">`,
				Escape(g.DisplayName), `</h5></div><div class="row">`)
			for _, s := range g.Skills {
				id := itoa(s.ID)
				h.raw(`<div class="col-md-6 mb-3"><div class="card skill-card" data-bs-toggle="modal" data-bs-target="#quizModal"`,
					` hx-post="/quiz/`, id, `" hx-swap="none">`,
					`<div class="card-body"><h6 class="card-title">`, Escape(s.Name), `</h6>`,
					`<p class="card-text small">`, Escape(s.Description), `</p>`,
					`<div class="d-flex justify-content-between align-items-center">`,
					`<span class="badge bg-primary badge-category">`, Escape(s.CategoryDisplayName), `</span>`,
					`<span class="skill-level `, s.Level.Class(), `">`, Escape(levelText(s.Level, s.LevelDisplay)), `</span>`,
					`</div><small class="text-muted d-block mt-2">From: `, Escape(s.ProjectName), `</small>`,
					`<a class="small" data-bs-toggle="modal" data-bs-target="#quizModal" hx-trigger="click consume" hx-get="/quiz/`, id, `/latest" hx-swap="none">Last result</a>`,
					`</div></div></div>`)
			}
			h.raw(`</div></div>`)
		}
	})
}

func levelText(level model.Level, display string) string {
	if display != "" {
		return display
	}
	return level.DisplayText()
}

// QuizTitle is the modal heading for a skill.
func QuizTitle(skillName string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("Quiz: ", Escape(skillName))
	})
}

// QuizLoading is shown while a quiz is generated.
func QuizLoading() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="quiz-loading"><div class="spinner-border text-primary" role="status">`,
			`<span class="visually-hidden">Loading...</span></div>`,
			`<div class="quiz-loading-text">`, LoadingTitle, `</div>`,
			`<div class="quiz-loading-subtext">`, LoadingSubtitle, `</div></div>`)
	})
}

// QuizForm renders every question with one required radio group each.
// Option values are the option's label. selected pre-checks choices.
func QuizForm(quiz model.Quiz, selected map[int]string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form id="quizForm" hx-post="/quiz/submit" hx-swap="none">`)
		for _, q := range quiz.Questions {
			n := itoa(q.Number)
			h.raw(`<div class="quiz-question"><p><strong>Question `, n, `:</strong></p>`,
				`<div class="question-content">`)
			h.raw(FormatQuestionText(q.Text), `</div>`)
			for i, opt := range q.Options {
				label := model.OptionLabel(opt)
				optID := "q" + n + "_" + strconv.Itoa(i)
				checked := ""
				if label != "" && selected[q.Number] == label {
					checked = " checked"
				}
				h.raw(`<div class="quiz-option"><input type="radio" name="q`, n, `" value="`, Escape(label),
					`" id="`, optID, `" required`, checked, `>`,
					`<label for="`, optID, `">`, Escape(opt), `</label></div>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`<button type="submit" class="btn btn-primary">Submit Quiz</button></form>`)
	})
}

// QuizResult renders a graded result.
func QuizResult(r model.QuizResult) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="quiz-result alert alert-info"><h4>`, QuizCompleteText, `</h4>`,
			`<p class="mb-2"><strong>Score:</strong> `, itoa(r.Score), `%</p>`,
			`<p class="mb-2"><strong>Correct Answers:</strong> `, itoa(r.CorrectAnswers), ` / `, itoa(r.TotalQuestions), `</p>`,
			`<p class="mb-0"><strong>Skill Level:</strong> <span class="skill-level `, r.AchievedLevel.Class(), `">`,
			Escape(levelText(r.AchievedLevel, r.LevelDisplay)), `</span></p>`)
		if r.CompletedAt != nil && !r.CompletedAt.IsZero() {
			h.raw(`<p class="mb-0 small text-muted">Completed: `, FormatDate(*r.CompletedAt), `</p>`)
		}
		h.raw(`<button class="btn btn-primary mt-3" data-bs-dismiss="modal">Close</button></div>`)
	})
}

// QuizError renders a failure inside the quiz modal with a close control.
func QuizError(heading, message string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert alert-danger"><h5>`, Escape(heading), `</h5>`,
			`<p>`, Escape(message), `</p>`,
			`<button class="btn btn-primary" data-bs-dismiss="modal">Close</button></div>`)
	})
}
