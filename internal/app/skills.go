package app

import (
	"context"
	"sync"

	"github.com/okian/skillview/internal/domain/model"
	"github.com/okian/skillview/internal/ui"
	"github.com/okian/skillview/internal/view"
	"github.com/okian/skillview/pkg/logger"
)

// FallbackSkillName titles the quiz when the skill is not in the list.
const FallbackSkillName = "Skill"

const msgSkillsFailed = "Failed to load skills: "

type quizOpener interface {
	Open(ctx context.Context, skillID int64, title string) error
	Start(ctx context.Context, skillID int64, title string) <-chan error
}

// Skills owns the skill list.
type Skills struct {
	api  SkillAPI
	ui   ui.UI
	quiz quizOpener
	s    settings

	mu     sync.RWMutex
	skills []model.Skill
}

// NewSkills creates the skill controller.
func NewSkills(client SkillAPI, u ui.UI, opts ...Option) *Skills {
	s := newSettings(opts)
	s.log = s.log.Named("skills")
	return &Skills{api: client, ui: u, s: s}
}

// Refresh fetches the list and re-renders it grouped by category.
func (k *Skills) Refresh(ctx context.Context) error {
	list, err := k.api.ListSkills(ctx)
	if err != nil {
		if handleAuth(ctx, k.ui, err) {
			return err
		}
		k.s.log.Error(ctx, "failed to load skills", logger.Error(err))
		k.ui.Notify(ctx, msgSkillsFailed+describe(err), ui.Failure)
		return err
	}

	k.mu.Lock()
	k.skills = list
	k.mu.Unlock()

	mount(ctx, k.ui, k.s, ui.SlotSkills, view.SkillList(list))
	return nil
}

// Lookup finds a skill in the last fetched list.
func (k *Skills) Lookup(id int64) (model.Skill, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, s := range k.skills {
		if s.ID == id {
			return s, true
		}
	}
	return model.Skill{}, false
}

// Snapshot returns a copy of the last fetched list.
func (k *Skills) Snapshot() []model.Skill {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]model.Skill(nil), k.skills...)
}

// Open starts a quiz for the skill.
func (k *Skills) Open(ctx context.Context, skillID int64) error {
	return k.quiz.Open(ctx, skillID, k.title(skillID))
}

// StartQuiz is Open without waiting for generation.
func (k *Skills) StartQuiz(ctx context.Context, skillID int64) <-chan error {
	return k.quiz.Start(ctx, skillID, k.title(skillID))
}

func (k *Skills) title(skillID int64) string {
	if s, ok := k.Lookup(skillID); ok && s.Name != "" {
		return s.Name
	}
	return FallbackSkillName
}
