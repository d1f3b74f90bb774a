package testfixtures

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/festory/festory/internal/persistence"
	"github.com/festory/festory/internal/store"
)

// MemorySnapshotRepository is an in-memory persistence.SnapshotRepository for
// store tests. A non-nil SaveErr makes every SaveSnapshot call fail, which
// exercises the store's rollback path. SaveHook, when set, runs before each
// save outside the repository lock and may reject it, letting tests hold a
// save in flight.
type MemorySnapshotRepository struct {
	mu      sync.Mutex
	records map[string]persistence.SnapshotRecord

	SaveErr   error
	SaveHook  func() error
	SaveCount int
}

// NewMemorySnapshotRepository constructs an empty in-memory repository.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{records: map[string]persistence.SnapshotRecord{}}
}

// SaveSnapshot stores the record, or fails with SaveErr or the SaveHook error
// when injected.
func (r *MemorySnapshotRepository) SaveSnapshot(_ context.Context, record persistence.SnapshotRecord) error {
	r.mu.Lock()
	r.SaveCount++
	hook := r.SaveHook
	saveErr := r.SaveErr
	r.mu.Unlock()

	if hook != nil {
		if err := hook(); err != nil {
			return err
		}
	}
	if saveErr != nil {
		return saveErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	record.Payload = append([]byte(nil), record.Payload...)
	r.records[record.Namespace] = record
	return nil
}

// GetSnapshot returns the stored record or persistence.ErrNotFound.
func (r *MemorySnapshotRepository) GetSnapshot(_ context.Context, namespace string) (persistence.SnapshotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[namespace]
	if !ok {
		return persistence.SnapshotRecord{}, persistence.ErrNotFound
	}
	record.Payload = append([]byte(nil), record.Payload...)
	return record, nil
}

// DeleteSnapshot removes the stored record or returns persistence.ErrNotFound.
func (r *MemorySnapshotRepository) DeleteSnapshot(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[namespace]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.records, namespace)
	return nil
}

// StoreFactory assists tests with constructing stores using a deterministic
// clock and an in-memory snapshot repository.
type StoreFactory struct {
	Clock     *Clock
	Snapshots *MemorySnapshotRepository
	Logger    *slog.Logger
}

// StoreFactoryOption configures a StoreFactory instance.
type StoreFactoryOption func(*StoreFactory)

// NewStoreFactory constructs a StoreFactory with defaults.
func NewStoreFactory(opts ...StoreFactoryOption) *StoreFactory {
	factory := &StoreFactory{
		Clock:     NewClock(time.Time{}),
		Snapshots: NewMemorySnapshotRepository(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.Snapshots == nil {
		factory.Snapshots = NewMemorySnapshotRepository()
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.Clock = clock
	}
}

// WithSnapshots overrides the snapshot repository used by the factory.
func WithSnapshots(repo *MemorySnapshotRepository) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.Snapshots = repo
	}
}

// NewStore builds a store wired to the factory clock and repository.
func (f *StoreFactory) NewStore() *store.Store {
	return store.New(f.Snapshots, f.Clock.NowFunc(), f.Logger)
}
