// Package web serves the dashboard page and the HTMX endpoints that drive
// the view controllers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/app"
	"github.com/okian/skillview/internal/ingest"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

const defaultMaxUploadBytes = 32 << 20

// Login failure copy.
const (
	MsgBadCredentials = "Invalid username or password"
	MsgBadUsername    = "Username must not be empty or contain ':'"
)

// Server wires the local front-end routes.
type Server struct {
	dash *app.Dashboard
	page *Page

	log            logger.Logger
	metrics        *metrics.Manager
	exposeMetrics  bool
	maxUploadBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records requests on m and, when expose is set, serves the
// registry on /metrics.
func WithMetrics(m *metrics.Manager, expose bool) Option {
	return func(s *Server) {
		s.metrics = m
		s.exposeMetrics = expose
	}
}

// WithMaxUploadBytes bounds a multipart upload.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewServer creates the front-end for a dashboard whose controllers render
// into page.
func NewServer(dash *app.Dashboard, page *Page, opts ...Option) *Server {
	s := &Server{
		dash:           dash,
		page:           page,
		log:            logger.Nop(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, label string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(s.metrics, h, label))
	}
	route("GET /{$}", "dashboard", s.handleDashboard)
	route("GET /login", "login", s.handleLoginPage)
	route("POST /login", "login", s.handleLogin)
	route("POST /logout", "logout", s.handleLogout)
	route("GET /fragments/projects", "fragments_projects", s.handleProjects)
	route("GET /fragments/skills", "fragments_skills", s.handleSkills)
	route("GET /fragments/quiz", "fragments_quiz", s.handleQuizFragment)
	route("POST /projects", "upload", s.handleUpload)
	route("DELETE /projects/{id}", "delete", s.handleDelete)
	route("POST /quiz/submit", "quiz_submit", s.handleQuizSubmit)
	route("POST /quiz/close", "quiz_close", s.handleQuizClose)
	route("POST /quiz/{skillId}", "quiz_open", s.handleQuizOpen)
	route("GET /quiz/{skillId}/latest", "quiz_latest", s.handleQuizLatest)
	route("GET /healthz", "healthz", s.handleHealth)
	mux.Handle("GET "+StaticPrefix, http.StripPrefix(StaticPrefix, http.FileServer(assets())))
	mux.Handle("GET "+StaticPrefix, http.StripPrefix(StaticPrefix, http.FileServer(assets())))

	if s.metrics != nil && s.exposeMetrics {
		h, err := s.metrics.Handler()
		if err != nil {
			s.log.Error(context.Background(), "metrics endpoint disabled", logger.Error(err))
			return
		}
		mux.Handle("GET /metrics", h)
	}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// action runs fn with a collector and writes what the controllers did.
// Controllers surface their own failures, so err is only logged.
func (s *Server) action(w http.ResponseWriter, r *http.Request, name string, fn func(ctx context.Context) error, extra ...func() string) {
	ctx, resp := s.page.begin(r.Context())
	if err := fn(ctx); err != nil {
		s.log.Debug(ctx, "action finished with error", logger.String("action", name), logger.Error(err))
	}
	tail := make([]string, 0, len(extra))
	for _, e := range extra {
		tail = append(tail, e())
	}
	s.page.write(w, r, resp, tail...)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, resp := s.page.begin(r.Context())
	if err := s.dash.Load(ctx); err != nil {
		s.log.Debug(ctx, "dashboard load incomplete", logger.Error(err))
	}
	if err := s.page.renderDashboard(w, r, resp); err != nil {
		s.log.Error(ctx, "failed to render dashboard", logger.Error(err))
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, "")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, r, api.FallbackMessage)
		return
	}
	err := s.dash.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case err == nil:
		http.Redirect(w, r, EntryPath, http.StatusSeeOther)
	case errors.Is(err, app.ErrValidation):
		s.renderLogin(w, r, MsgBadUsername)
	case api.IsAuth(err):
		s.renderLogin(w, r, MsgBadCredentials)
	default:
		s.renderLogin(w, r, api.Message(err))
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.LoginPage(message).Render(r.Context(), w); err != nil {
		s.log.Error(r.Context(), "failed to render login", logger.Error(err))
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "logout", s.dash.Logout)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "projects", s.dash.Projects.Refresh)
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "skills", s.dash.Skills.Refresh)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, "bad_upload", err)
		return
	}
	var files []ingest.Source
	if r.MultipartForm != nil {
		var err error
		files, err = readParts(r.MultipartForm.File["projectFiles"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_upload", err)
			return
		}
	}
	form := app.UploadForm{
		Name:        r.FormValue("projectName"),
		Description: r.FormValue("description"),
		Files:       files,
	}
	s.action(w, r, "upload", func(ctx context.Context) error {
		return s.dash.Projects.Upload(ctx, form)
	})
}

// readParts loads every selected file. Browsers send one empty part when
// nothing was selected; it is skipped.
func readParts(headers []*multipart.FileHeader) ([]ingest.Source, error) {
	out := make([]ingest.Source, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, ingest.FromBytes(fh.Filename, data))
	}
	return out, nil
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.action(w, r, "delete", func(ctx context.Context) error {
		return s.dash.Projects.Remove(ctx, id)
	})
}

func (s *Server) handleQuizOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "skillId")
	if !ok {
		return
	}
	s.action(w, r, "quiz_open", func(ctx context.Context) error {
		done := s.dash.Skills.StartQuiz(ctx, id)
		go func() {
			if err := <-done; err != nil {
				s.log.Debug(context.Background(), "quiz generation ended", logger.Int64("skill", id), logger.Error(err))
			}
		}()
		return nil
	}, s.quizState()...)
}

func (s *Server) handleQuizFragment(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "quiz_poll", func(context.Context) error { return nil }, s.quizState()...)
}

// quizState re-sends the quiz slots and keeps polling while generating.
func (s *Server) quizState() []func() string {
	return []func() string{
		func() string { return s.page.slotPart(ui.SlotQuizHead) },
		func() string { return s.page.slotPart(ui.SlotQuiz) },
		func() string {
			return withOOB(renderString(context.Background(), view.QuizPoll(s.dash.Quiz.State() == app.Loading)))
		},
	}
}

func (s *Server) handleQuizLatest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "skillId")
	if !ok {
		return
	}
	s.action(w, r, "quiz_latest", func(ctx context.Context) error {
		return s.dash.Quiz.Review(ctx, id)
	})
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_form", err)
		return
	}
	selections := make(map[int]string)
	for key, values := range r.PostForm {
		raw, ok := strings.CutPrefix(key, "q")
		if !ok || len(values) == 0 {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		selections[n] = values[0]
	}
	s.action(w, r, "quiz_submit", func(ctx context.Context) error {
		return s.dash.Quiz.Submit(ctx, selections)
	})
}

func (s *Server) handleQuizClose(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, "quiz_close", func(ctx context.Context) error {
		s.dash.Quiz.Close(ctx)
		return nil
	}, func() string { return withOOB(renderString(r.Context(), view.QuizPoll(false))) })
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_id", errors.New("invalid "+name))
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
