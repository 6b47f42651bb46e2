package task

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/learnflow/learnflow-api/internal/domain"
	"github.com/learnflow/learnflow-api/internal/store"
)

// memoryTaskStore is an in-memory TaskStore used by tests in this
// package.
type memoryTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.GenerationTask

	// failUpdates makes Update return an error, simulating a durable
	// tier outage.
	failUpdates bool
	updateErr   error
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{tasks: make(map[uuid.UUID]*domain.GenerationTask)}
}

func (s *memoryTaskStore) Create(_ context.Context, task *domain.GenerationTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *memoryTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (s *memoryTaskStore) Update(_ context.Context, task *domain.GenerationTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdates {
		return s.updateErr
	}
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = task.Clone()
	return nil
}

func (s *memoryTaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.GenerationTask
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			out = append(out, task.Clone())
		}
	}
	return out, nil
}

func (s *memoryTaskStore) ListUnsettled(_ context.Context) ([]*domain.GenerationTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.GenerationTask
	for _, task := range s.tasks {
		if !task.Settled() {
			out = append(out, task.Clone())
		}
	}
	return out, nil
}

func (s *memoryTaskStore) WithTx(_ *sql.Tx) store.TaskStore { return s }

var _ store.TaskStore = (*memoryTaskStore)(nil)
