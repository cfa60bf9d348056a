package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

// State is where a quiz session is in its lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Submitting
	Result
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Result:
		return "result"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const msgSubmitFailed = "Failed to submit quiz: "

// MsgAnswerAll is shown when a submission leaves questions unanswered.
const MsgAnswerAll = "Please answer every question"

type skillSource interface {
	Refresher
	Lookup(id int64) (model.Skill, bool)
}

type quizSession struct {
	id         uuid.UUID
	state      State
	skillID    int64
	title      string
	quiz       model.Quiz
	selections map[int]string
	result     *model.QuizResult
}

// Session is a read-only view of the active quiz session.
type Session struct {
	ID         uuid.UUID
	State      State
	SkillID    int64
	Title      string
	Quiz       model.Quiz
	Selections map[int]string
	Result     *model.QuizResult
}

// Quiz drives the one active quiz session. Opening a quiz replaces
// whatever session was active; responses that arrive for a replaced
// session are dropped.
type Quiz struct {
	api    QuizAPI
	ui     ui.UI
	skills skillSource
	s      settings

	mu      sync.Mutex
	current *quizSession

	bg sync.WaitGroup
}

// NewQuiz creates the quiz controller. skills is refreshed after every
// graded submission and supplies titles for reviews; it may be nil.
func NewQuiz(client QuizAPI, u ui.UI, skills skillSource, opts ...Option) *Quiz {
	s := newSettings(opts)
	s.log = s.log.Named("quiz")
	return &Quiz{api: client, ui: u, skills: skills, s: s}
}

// begin replaces the active session and renders the loading state.
func (q *Quiz) begin(ctx context.Context, skillID int64, title string) *quizSession {
	sess := &quizSession{id: uuid.New(), state: Loading, skillID: skillID, title: title}
	q.mu.Lock()
	q.current = sess
	mount(ctx, q.ui, q.s, ui.SlotQuizHead, view.QuizTitle(title))
	mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizLoading())
	q.mu.Unlock()
	return sess
}

// lockCurrent locks q and reports whether sess is still active. The caller
// must unlock.
func (q *Quiz) lockCurrent(ctx context.Context, sess *quizSession) bool {
	q.mu.Lock()
	if q.current == sess {
		return true
	}
	q.s.quizEvent(metrics.QuizSuperseded)
	q.s.log.Debug(ctx, "dropping response for replaced session", logger.String("session", sess.id.String()))
	return false
}

// Open starts generating a quiz for a skill and renders it when ready.
func (q *Quiz) Open(ctx context.Context, skillID int64, title string) error {
	q.s.quizEvent(metrics.QuizStarted)
	q.s.log.Info(ctx, "opening quiz", logger.Int64("skill", skillID))
	return q.generate(ctx, q.begin(ctx, skillID, title))
}

// Start renders the loading state on ctx and generates the quiz in the
// background. The channel receives the outcome Open would have returned.
func (q *Quiz) Start(ctx context.Context, skillID int64, title string) <-chan error {
	q.s.quizEvent(metrics.QuizStarted)
	q.s.log.Info(ctx, "starting quiz", logger.Int64("skill", skillID))
	sess := q.begin(ctx, skillID, title)
	done := make(chan error, 1)
	q.bg.Add(1)
	go func() {
		defer q.bg.Done()
		done <- q.generate(context.Background(), sess)
	}()
	return done
}

func (q *Quiz) generate(ctx context.Context, sess *quizSession) error {
	quiz, err := q.api.GenerateQuiz(ctx, sess.skillID)

	if !q.lockCurrent(ctx, sess) {
		q.mu.Unlock()
		return ErrSuperseded
	}
	defer q.mu.Unlock()

	if err != nil {
		sess.state = Failed
		q.s.quizEvent(metrics.QuizFailed)
		if handleAuth(ctx, q.ui, err) {
			return err
		}
		q.s.log.Warn(ctx, "quiz generation failed", logger.Int64("skill", sess.skillID), logger.Error(err))
		mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizError(view.QuizFailedTitle, describe(err)))
		return err
	}

	if quiz.SkillID == 0 {
		quiz.SkillID = sess.skillID
	}
	if quiz.SkillName != "" {
		sess.title = quiz.SkillName
		mount(ctx, q.ui, q.s, ui.SlotQuizHead, view.QuizTitle(sess.title))
	}
	sess.quiz = quiz
	sess.state = Ready
	mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizForm(quiz, nil))
	return nil
}

// Submit grades the active quiz. selections maps question number to the
// chosen option label; every question needs one.
func (q *Quiz) Submit(ctx context.Context, selections map[int]string) error {
	q.mu.Lock()
	sess := q.current
	if sess == nil || sess.state != Ready {
		q.mu.Unlock()
		return ErrNotReady
	}
	answers := make([]model.Answer, 0, len(sess.quiz.Questions))
	var missing []string
	for _, question := range sess.quiz.Questions {
		label := selections[question.Number]
		if !question.HasLabel(label) {
			missing = append(missing, fmt.Sprint(question.Number))
			continue
		}
		answers = append(answers, model.Answer{QuestionNumber: question.Number, SelectedAnswer: label})
	}
	if len(missing) > 0 {
		q.mu.Unlock()
		q.s.validationFailed("quiz_submit")
		q.ui.Notify(ctx, MsgAnswerAll, ui.Failure)
		return fmt.Errorf("%w: unanswered questions %s", ErrValidation, strings.Join(missing, ","))
	}
	sess.selections = make(map[int]string, len(answers))
	for _, a := range answers {
		sess.selections[a.QuestionNumber] = a.SelectedAnswer
	}
	sess.state = Submitting
	sub := model.QuizSubmission{SkillID: sess.skillID, Answers: answers}
	q.mu.Unlock()

	result, err := q.api.SubmitQuiz(ctx, sub)

	if !q.lockCurrent(ctx, sess) {
		q.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		sess.state = Ready
		if handleAuth(ctx, q.ui, err) {
			q.mu.Unlock()
			return err
		}
		mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizForm(sess.quiz, sess.selections))
		q.mu.Unlock()
		q.s.log.Warn(ctx, "quiz submission failed", logger.Int64("skill", sess.skillID), logger.Error(err))
		q.ui.Notify(ctx, msgSubmitFailed+describe(err), ui.Failure)
		return err
	}

	sess.state = Result
	sess.result = &result
	mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizResult(result))
	q.mu.Unlock()

	q.s.quizEvent(metrics.QuizCompleted)
	q.s.log.Info(ctx, "quiz graded", logger.Int64("skill", sess.skillID), logger.Int("score", result.Score))
	q.refreshSkills()
	return nil
}

// refreshSkills reloads skills in the background so a new level shows up.
// It does not inherit the caller's context: the caller may be long gone.
func (q *Quiz) refreshSkills() {
	if q.skills == nil {
		return
	}
	q.bg.Add(1)
	go func() {
		defer q.bg.Done()
		_ = q.skills.Refresh(context.Background())
	}()
}

// Review shows the latest graded result for a skill in its own session.
func (q *Quiz) Review(ctx context.Context, skillID int64) error {
	title := FallbackSkillName
	if q.skills != nil {
		if s, ok := q.skills.Lookup(skillID); ok && s.Name != "" {
			title = s.Name
		}
	}
	sess := q.begin(ctx, skillID, title)

	result, err := q.api.LatestResult(ctx, skillID)

	if !q.lockCurrent(ctx, sess) {
		q.mu.Unlock()
		return ErrSuperseded
	}
	defer q.mu.Unlock()

	if err != nil {
		sess.state = Failed
		if handleAuth(ctx, q.ui, err) {
			return err
		}
		q.s.log.Warn(ctx, "loading latest result failed", logger.Int64("skill", skillID), logger.Error(err))
		mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizError(view.ResultFailed, describe(err)))
		return err
	}
	sess.state = Result
	sess.result = &result
	mount(ctx, q.ui, q.s, ui.SlotQuiz, view.QuizResult(result))
	return nil
}

// Close discards the active session.
func (q *Quiz) Close(_ context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = nil
}

// State is the active session's state, or Idle.
func (q *Quiz) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return Idle
	}
	return q.current.state
}

// Snapshot copies the active session.
func (q *Quiz) Snapshot() (Session, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	c := q.current
	if c == nil {
		return Session{}, false
	}
	sel := make(map[int]string, len(c.selections))
	for k, v := range c.selections {
		sel[k] = v
	}
	return Session{
		ID:         c.id,
		State:      c.state,
		SkillID:    c.skillID,
		Title:      c.title,
		Quiz:       c.quiz,
		Selections: sel,
		Result:     c.result,
	}, true
}

// Wait blocks until background refreshes finish.
func (q *Quiz) Wait() {
	q.bg.Wait()
}
