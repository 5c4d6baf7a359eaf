package deploy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// RecordNotFoundError reports a missing deployment record.
type RecordNotFoundError struct {
	Key string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("deployment record not found: %s", e.Key)
}

// InvalidTransitionError reports a state change that would rewind an attempt.
type InvalidTransitionError struct {
	From AttemptState
	To   AttemptState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("deployment state cannot move from %s to %s", e.From, e.To)
}

// RecordRepository persists deployment attempts.
type RecordRepository interface {
	Create(ctx context.Context, record *DeploymentRecord) (*DeploymentRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DeploymentRecord, error)
	// Transition advances a record's state. Rewinding transitions fail with
	// InvalidTransitionError.
	Transition(ctx context.Context, id uuid.UUID, state AttemptState, mutate func(*DeploymentRecord)) (*DeploymentRecord, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*DeploymentRecord, error)
}

// NewMemoryRecordRepository returns an in-memory attempt store.
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{
		byID:  map[uuid.UUID]*DeploymentRecord{},
		order: map[uuid.UUID]int{},
	}
}

type memoryRecordRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*DeploymentRecord
	order map[uuid.UUID]int
	seq   int
}

func (m *memoryRecordRepository) Create(_ context.Context, record *DeploymentRecord) (*DeploymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := cloneRecord(record)
	m.byID[clone.ID] = clone
	m.seq++
	m.order[clone.ID] = m.seq
	return cloneRecord(clone), nil
}

func (m *memoryRecordRepository) GetByID(_ context.Context, id uuid.UUID) (*DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &RecordNotFoundError{Key: id.String()}
	}
	return cloneRecord(record), nil
}

func (m *memoryRecordRepository) Transition(_ context.Context, id uuid.UUID, state AttemptState, mutate func(*DeploymentRecord)) (*DeploymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &RecordNotFoundError{Key: id.String()}
	}
	if !record.State.CanTransition(state) {
		return nil, &InvalidTransitionError{From: record.State, To: state}
	}

	record.State = state
	if mutate != nil {
		mutate(record)
	}
	return cloneRecord(record), nil
}

func (m *memoryRecordRepository) ListByPage(_ context.Context, pageID uuid.UUID) ([]*DeploymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*DeploymentRecord
	for _, record := range m.byID {
		if record.PageID == pageID {
			out = append(out, cloneRecord(record))
		}
	}
	// Records created within the same clock tick keep insertion order.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return m.order[out[i].ID] < m.order[out[j].ID]
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneRecord(record *DeploymentRecord) *DeploymentRecord {
	if record == nil {
		return nil
	}
	clone := *record
	return &clone
}
