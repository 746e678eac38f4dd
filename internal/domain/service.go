// Package domain defines the agenda's activity records and the store that
// owns the persisted collection.
package domain

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/agenda/internal/observability"
)

var (
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrCorruptData indicates the persisted collection could not be decoded.
	ErrCorruptData = errors.New("stored activities are corrupt")
	// ErrInvalidActivity wraps input validation failures.
	ErrInvalidActivity = errors.New("invalid activity")
)

// CollectionRepository loads and replaces the whole activity collection.
type CollectionRepository interface {
	Load(ctx context.Context) ([]Activity, error)
	Save(ctx context.Context, activities []Activity) error
}

// Service is the single gate to the persisted collection. Every call reloads
// the collection; mutating calls write the whole collection back.
type Service struct {
	repo   CollectionRepository
	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	mu sync.Mutex
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how new record IDs are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService constructs a Service.
func NewService(repo CollectionRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns every activity in collection order.
func (s *Service) LoadAll(ctx context.Context) ([]Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, "load_all")
}

// LoadPending returns activities not yet completed, in collection order.
func (s *Service) LoadPending(ctx context.Context) ([]Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx, "load_pending")
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(all))
	for _, a := range all {
		if !a.Completed {
			out = append(out, a)
		}
	}
	return out, nil
}

// LoadCompleted returns completed activities, most recently completed first.
// Records without a completion time sort by their date; ties keep
// collection order.
func (s *Service) LoadCompleted(ctx context.Context) ([]Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx, "load_completed")
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(all))
	for _, a := range all {
		if a.Completed {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].sortKey().After(out[j].sortKey())
	})
	return out, nil
}

// Get returns the activity with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return nil, ErrActivityNotFound
	}
	all, err := s.load(ctx, "get")
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrActivityNotFound
}

// SaveNew appends the activity and returns it as stored.
func (s *Service) SaveNew(ctx context.Context, activity Activity) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx, "save_new")
	if err != nil {
		return nil, err
	}
	if activity.ID == "" {
		activity.ID = s.newID()
	}
	all = append(all, activity)
	if err := s.save(ctx, "save_new", all); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Update replaces the first record matching original with updated, or
// appends updated when nothing matches.
func (s *Service) Update(ctx context.Context, original, updated Activity) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx, "update")
	if err != nil {
		return nil, err
	}
	if idx := indexOf(all, original); idx >= 0 {
		if updated.ID == "" {
			updated.ID = all[idx].ID
		}
		all[idx] = updated
	} else {
		if updated.ID == "" {
			updated.ID = s.newID()
		}
		s.logger.Debug("update target not found, appending", zap.String("title", original.Title))
		all = append(all, updated)
	}
	if err := s.save(ctx, "update", all); err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkCompleted flags the matching activity as completed now. It reports
// whether a record was found.
func (s *Service) MarkCompleted(ctx context.Context, activity Activity) (bool, error) {
	now := s.now()
	return s.mutate(ctx, "mark_completed", activity, func(all []Activity, idx int) []Activity {
		all[idx].Completed = true
		all[idx].CompletedAt = &now
		return all
	})
}

// MarkPending restores the matching activity to pending.
func (s *Service) MarkPending(ctx context.Context, activity Activity) (bool, error) {
	return s.mutate(ctx, "mark_pending", activity, func(all []Activity, idx int) []Activity {
		all[idx].Completed = false
		all[idx].CompletedAt = nil
		return all
	})
}

// Delete removes the first matching activity.
func (s *Service) Delete(ctx context.Context, activity Activity) (bool, error) {
	return s.mutate(ctx, "delete", activity, func(all []Activity, idx int) []Activity {
		return append(all[:idx], all[idx+1:]...)
	})
}

// mutate applies change to the first record matching probe. Nothing is
// written when there is no match.
func (s *Service) mutate(ctx context.Context, op string, probe Activity, change func([]Activity, int) []Activity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load(ctx, op)
	if err != nil {
		return false, err
	}
	idx := indexOf(all, probe)
	if idx < 0 {
		s.logger.Debug("activity not found", zap.String("op", op), zap.String("id", probe.ID))
		return false, nil
	}
	if err := s.save(ctx, op, change(all, idx)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) load(ctx context.Context, op string) ([]Activity, error) {
	start := time.Now()
	all, err := s.repo.Load(ctx)
	observability.ObserveStoreOperation(op, "load", start, err)
	if err != nil {
		s.logger.Error("load activities", zap.String("op", op), zap.Error(err))
		return nil, err
	}
	assignLegacyIDs(all)
	return all, nil
}

func (s *Service) save(ctx context.Context, op string, all []Activity) error {
	start := time.Now()
	err := s.repo.Save(ctx, all)
	observability.ObserveStoreOperation(op, "save", start, err)
	if err != nil {
		s.logger.Error("save activities", zap.String("op", op), zap.Error(err))
		return err
	}
	observability.RecordCollectionPersisted(s.now(), len(all))
	return nil
}
