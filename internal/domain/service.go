// Package domain defines the roster types and the business workflow around them.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/mergington/internal/events"
)

var (
	// ErrActivityNotFound is returned when no activity carries the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyRegistered indicates the participant is already on the activity roster.
	ErrAlreadyRegistered = errors.New("student is already signed up")
	// ErrParticipantNotFound is returned when the participant is not on the named activity's roster.
	ErrParticipantNotFound = errors.New("participant not found in this activity")
	// ErrInvalidParticipant rejects empty participant identifiers.
	ErrInvalidParticipant = errors.New("participant email is required")
	// ErrActivityFull is returned by stores that enforce max_participants.
	ErrActivityFull = errors.New("activity is full")
)

// RosterStore captures the roster operations the service depends on.
type RosterStore interface {
	List() map[string]Activity
	Signup(activity, email string) error
	Remove(activity, email string) error
	Reset()
}

// EventPublisher hands roster change events to the delivery pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.RosterChanged)
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, events.RosterChanged) {}

// Recorder observes roster outcomes, typically for metrics.
type Recorder interface {
	RecordSignup(activity string)
	RecordRemoval(activity string)
	RecordRejection(operation string, err error)
	RecordReset()
}

type noopRecorder struct{}

func (noopRecorder) RecordSignup(string) {}
func (noopRecorder) RecordRemoval(string) {}
func (noopRecorder) RecordRejection(string, error) {}
func (noopRecorder) RecordReset() {}

// Service orchestrates roster workflows.
type Service struct {
	store     RosterStore
	publisher EventPublisher
	recorder  Recorder
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithPublisher sets the event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service.
func NewService(store RosterStore, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: NoopPublisher{},
		recorder:  noopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns a snapshot of every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) map[string]Activity {
	return s.store.List()
}

// Signup registers email for the named activity.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	if err := s.store.Signup(activity, email); err != nil {
		s.recorder.RecordRejection(events.OperationSignup, err)
		return err
	}
	s.recorder.RecordSignup(activity)
	s.afterMutation(ctx, events.TypeParticipantSignedUp, activity, email)
	return nil
}

// Remove withdraws email from the named activity.
func (s *Service) Remove(ctx context.Context, activity, email string) error {
	if err := s.store.Remove(activity, email); err != nil {
		s.recorder.RecordRejection(events.OperationRemove, err)
		return err
	}
	s.recorder.RecordRemoval(activity)
	s.afterMutation(ctx, events.TypeParticipantRemoved, activity, email)
	return nil
}

// Reset restores the seed dataset. It is used by test harnesses and has no HTTP route.
func (s *Service) Reset(ctx context.Context) {
	s.store.Reset()
	s.recorder.RecordReset()
}

func (s *Service) afterMutation(ctx context.Context, eventType, activity, email string) {
	s.publisher.Publish(ctx, events.RosterChanged{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: s.now().UTC(),
	})
}
