package model

import "unicode/utf8"

// Quiz is a generated set of multiple-choice questions for one skill.
type Quiz struct {
	SkillID   int64      `json:"skillId,omitempty"`
	SkillName string     `json:"skillName"`
	Questions []Question `json:"questions"`
}

// Question numbers are 1-based and unique within a quiz, but need not be
// contiguous.
type Question struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// OptionLabel returns the single-letter label an option string starts with.
func OptionLabel(option string) string {
	r, size := utf8.DecodeRuneInString(option)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return option[:size]
}

// HasLabel reports whether label selects one of q's options.
func (q Question) HasLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, opt := range q.Options {
		if OptionLabel(opt) == label {
			return true
		}
	}
	return false
}

// Answer is one selected option, keyed by question number.
type Answer struct {
	QuestionNumber int    `json:"questionNumber"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// QuizSubmission is the body of POST /quiz/submit.
type QuizSubmission struct {
	SkillID int64    `json:"skillId"`
	Answers []Answer `json:"answers"`
}

// QuizResult is the graded outcome of a submission.
type QuizResult struct {
	SkillID        int64      `json:"skillId,omitempty"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correctAnswers"`
	TotalQuestions int        `json:"totalQuestions"`
	AchievedLevel  Level      `json:"achievedLevel"`
	LevelDisplay   string     `json:"levelDisplay"`
	CompletedAt    *Timestamp `json:"completedAt,omitempty"`
}
