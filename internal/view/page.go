package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard holds the fragments placed into the dashboard layout.
type Dashboard struct {
	User     templ.Component
	Notices  templ.Component
	Projects templ.Component
	Skills   templ.Component
}

const head = `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
	`<meta name="viewport" content="width=device-width, initial-scale=1">` +
	`<title>Skill Extractor</title>` +
	`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">` +
	`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/highlight.js@11.9.0/styles/github.min.css">` +
	`<link rel="stylesheet" href="/static/skillview.css">` +
	`<script src="https://unpkg.com/htmx.org@1.9.12"></script>` +
	`</head><body>`

const tail = `<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>` +
	`<script src="https://cdn.jsdelivr.net/npm/highlight.js@11.9.0/lib/highlight.min.js"></script>` +
	`<script>["htmx:afterSwap","htmx:oobAfterSwap"].forEach(function(e){document.body.addEventListener(e,function(){document.querySelectorAll("pre code:not([data-highlighted])").forEach(function(b){hljs.highlightElement(b)})})});</script>` +
	`</body></html>`

func renderChild(ctx context.Context, w io.Writer, c templ.Component) error {
	if c == nil {
		return nil
	}
	return c.Render(ctx, w)
}

// DashboardPage is the full dashboard document.
func DashboardPage(d Dashboard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(head,
			`<nav class="navbar navbar-dark bg-dark"><div class="container">`,
			`<span class="navbar-brand">Skill Extractor</span>`,
			`<span class="navbar-text text-light" id="usernameDisplay">`)
		if h.err == nil {
			h.err = renderChild(ctx, w, d.User)
		}
		h.raw(`</span><form hx-post="/logout"><button class="btn btn-outline-light btn-sm">Logout</button></form>`,
			`</div></nav><div class="container mt-4"><div id="notices">`)
		if h.err == nil {
			h.err = renderChild(ctx, w, d.Notices)
		}
		h.raw(`</div><div class="card mb-4"><div class="card-body"><h4>Upload Project</h4>`)
		if h.err == nil {
			h.err = UploadForm().Render(ctx, w)
		}
		if h.err == nil {
			h.err = UploadProgress(false).Render(ctx, w)
		}
		h.raw(`</div></div>`,
			`<div class="row"><div class="col-md-4"><h4>Projects</h4>`,
			`<div id="projectsContainer">`)
		if h.err == nil {
			h.err = renderChild(ctx, w, d.Projects)
		}
		h.raw(`</div></div><div class="col-md-8"><h4>Skills</h4>`,
			`<div id="skillsContainer" hx-get="/fragments/skills" hx-trigger="hidden.bs.modal from:#quizModal" hx-swap="none">`)
		if h.err == nil {
			h.err = renderChild(ctx, w, d.Skills)
		}
		h.raw(`</div></div></div></div>`,
			`<div class="modal fade" id="quizModal" tabindex="-1" hx-post="/quiz/close" hx-trigger="hidden.bs.modal" hx-swap="none"><div class="modal-dialog modal-lg"><div class="modal-content">`,
			`<div class="modal-header"><h5 class="modal-title" id="quizModalTitle">Quiz</h5>`,
			`<button type="button" class="btn-close" data-bs-dismiss="modal"></button></div>`,
			`<div class="modal-body" id="quizContent"></div><div id="quizPoll"></div></div></div></div>`,
			tail)
		return h.err
	})
}

// UploadForm is the empty project upload form.
func UploadForm() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form id="uploadForm" hx-post="/projects" hx-encoding="multipart/form-data" hx-swap="none"`,
			` hx-on::before-request="document.getElementById('uploadProgress').classList.remove('d-none')">`,
			`<input class="form-control mb-2" id="projectName" name="projectName" placeholder="Project name" required>`,
			`<textarea class="form-control mb-2" id="description" name="description" placeholder="Description"></textarea>`,
			`<input class="form-control mb-2" type="file" id="projectFiles" name="projectFiles" multiple>`,
			`<button type="submit" class="btn btn-primary">Upload and Analyze</button></form>`)
	})
}

// UploadProgress is the analysis indicator shown while an upload runs.
func UploadProgress(visible bool) templ.Component {
	return component(func(h *htmlWriter) {
		class := "mt-2"
		if !visible {
			class = "d-none mt-2"
		}
		h.raw(`<div id="uploadProgress" class="`, class, `"><div class="spinner-border spinner-border-sm"></div> Analyzing...</div>`)
	})
}

// QuizPoll keeps asking for the quiz fragment while active is true.
func QuizPoll(active bool) templ.Component {
	return component(func(h *htmlWriter) {
		if !active {
			h.raw(`<div id="quizPoll"></div>`)
			return
		}
		h.raw(`<div id="quizPoll" hx-get="/fragments/quiz" hx-trigger="load delay:1s" hx-swap="none"></div>`)
	})
}

// LoginPage is the credential form. message, when set, is shown above it.
func LoginPage(message string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(head, `<div class="container mt-5" style="max-width:420px"><h3>Sign in</h3>`)
		if message != "" {
			h.raw(`<div class="alert alert-danger">`, Escape(message), `</div>`)
		}
		h.raw(`<form method="post" action="/login">`,
			`<input class="form-control mb-2" name="username" placeholder="Username" required>`,
			`<input class="form-control mb-2" type="password" name="password" placeholder="Password" required>`,
			`<button class="btn btn-primary w-100">Login</button></form></div>`, tail)
	})
}

// Notice is a dismissible message appended to the notice area.
func Notice(message, kind string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert alert-`, Escape(kind), ` alert-dismissible" role="alert">`, Escape(message),
			`<button type="button" class="btn-close" data-bs-dismiss="alert"></button></div>`)
	})
}
