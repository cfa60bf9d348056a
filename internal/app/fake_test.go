package app

import (
	"context"
	"sync"

	"github.com/okian/skillview/internal/adapters/api"
	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/session"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	projects []model.Project
	skills   []model.Skill
	quizzes  map[int64]model.Quiz
	result   model.QuizResult

	errs map[string]error

	// gates block GenerateQuiz for a skill until closed; started receives
	// the skill id as each generation begins.
	gates   map[int64]chan struct{}
	started chan int64

	uploaded  []model.UploadRequest
	submitted []model.QuizSubmission
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:   map[string]int{},
		quizzes: map[int64]model.Quiz{},
		errs:    map[string]error{},
		gates:   map[int64]chan struct{}{},
		started: make(chan int64, 16),
	}
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[name] = err
}

func (f *fakeAPI) ListProjects(context.Context) ([]model.Project, error) {
	if err := f.hit("projects"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Project(nil), f.projects...), nil
}

func (f *fakeAPI) UploadProject(_ context.Context, req model.UploadRequest) (model.UploadAck, error) {
	if err := f.hit("upload"); err != nil {
		return model.UploadAck{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, req)
	return model.UploadAck{Message: "ok"}, nil
}

func (f *fakeAPI) DeleteProject(_ context.Context, id int64) (string, error) {
	if err := f.hit("delete"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.projects[:0]
	for _, p := range f.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.projects = kept
	return "Project deleted successfully", nil
}

func (f *fakeAPI) ListSkills(context.Context) ([]model.Skill, error) {
	if err := f.hit("skills"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Skill(nil), f.skills...), nil
}

func (f *fakeAPI) GenerateQuiz(_ context.Context, skillID int64) (model.Quiz, error) {
	err := f.hit("generate")
	f.mu.Lock()
	gate := f.gates[skillID]
	quiz := f.quizzes[skillID]
	f.mu.Unlock()

	f.started <- skillID
	if gate != nil {
		<-gate
	}
	if err != nil {
		return model.Quiz{}, err
	}
	return quiz, nil
}

func (f *fakeAPI) SubmitQuiz(_ context.Context, sub model.QuizSubmission) (model.QuizResult, error) {
	if err := f.hit("submit"); err != nil {
		return model.QuizResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, sub)
	return f.result, nil
}

func (f *fakeAPI) LatestResult(context.Context, int64) (model.QuizResult, error) {
	if err := f.hit("latest"); err != nil {
		return model.QuizResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, nil
}

func (f *fakeAPI) CheckAuth(context.Context) (string, error) {
	if err := f.hit("check"); err != nil {
		return "", err
	}
	return "alice", nil
}

var (
	_ API          = (*fakeAPI)(nil)
	_ API          = (*api.Client)(nil)
	_ SessionStore = (*session.MemoryStore)(nil)
)
