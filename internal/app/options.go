package app

import (
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

// DefaultMaxFiles is the largest upload accepted.
const DefaultMaxFiles = 20

type settings struct {
	log      logger.Logger
	metrics  *metrics.Manager
	maxFiles int
}

func newSettings(opts []Option) settings {
	s := settings{log: logger.Nop(), maxFiles: DefaultMaxFiles}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a controller.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records controller events on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithMaxFiles caps the number of files per upload.
func WithMaxFiles(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxFiles = n
		}
	}
}

func (s settings) validationFailed(op string) {
	if s.metrics != nil {
		s.metrics.RecordValidationFailure(op)
	}
}

func (s settings) rendered(slot string) {
	if s.metrics != nil {
		s.metrics.RecordRender(slot)
	}
}

func (s settings) quizEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordQuizSession(event)
	}
}

func (s settings) upload(outcome string, files int) {
	if s.metrics != nil {
		s.metrics.RecordUpload(outcome, files)
	}
}
