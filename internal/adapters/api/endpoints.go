package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/skillview/internal/domain/model"
)

// ListProjects returns the user's projects in server order.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadProject sends every file of a project in one request.
func (c *Client) UploadProject(ctx context.Context, req model.UploadRequest) (model.UploadAck, error) {
	var ack model.UploadAck
	if err := c.do(ctx, http.MethodPost, "/projects/upload", "/projects/upload", req, &ack); err != nil {
		return model.UploadAck{}, err
	}
	return ack, nil
}

// DeleteProject removes a project and its skills. The server answers with a
// plain-text acknowledgement, returned as is.
func (c *Client) DeleteProject(ctx context.Context, id int64) (string, error) {
	var msg string
	if err := c.do(ctx, http.MethodDelete, "/projects/{id}", fmt.Sprintf("/projects/%d", id), nil, &msg); err != nil {
		return "", err
	}
	return strings.TrimSpace(msg), nil
}

// ListSkills returns every extracted skill in server order.
func (c *Client) ListSkills(ctx context.Context) ([]model.Skill, error) {
	var out []model.Skill
	if err := c.do(ctx, http.MethodGet, "/skills", "/skills", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateQuiz asks the server for a fresh quiz. It may take tens of seconds.
func (c *Client) GenerateQuiz(ctx context.Context, skillID int64) (model.Quiz, error) {
	var q model.Quiz
	if err := c.do(ctx, http.MethodPost, "/quiz/generate/{skillId}", fmt.Sprintf("/quiz/generate/%d", skillID), nil, &q); err != nil {
		return model.Quiz{}, err
	}
	return q, nil
}

// SubmitQuiz grades a set of answers.
func (c *Client) SubmitQuiz(ctx context.Context, sub model.QuizSubmission) (model.QuizResult, error) {
	var r model.QuizResult
	if err := c.do(ctx, http.MethodPost, "/quiz/submit", "/quiz/submit", sub, &r); err != nil {
		return model.QuizResult{}, err
	}
	return r, nil
}

// LatestResult returns the most recent graded result for a skill.
func (c *Client) LatestResult(ctx context.Context, skillID int64) (model.QuizResult, error) {
	var r model.QuizResult
	if err := c.do(ctx, http.MethodGet, "/quiz/results/{skillId}", fmt.Sprintf("/quiz/results/%d", skillID), nil, &r); err != nil {
		return model.QuizResult{}, err
	}
	return r, nil
}

// CheckAuth verifies the stored credentials and returns the username the
// server authenticated.
func (c *Client) CheckAuth(ctx context.Context) (string, error) {
	var out struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/check", "/auth/check", nil, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}
