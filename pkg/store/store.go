// Package store provides in-memory storage for evaluation history.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lemonberrylabs/calc/pkg/calc"
)

// DefaultCapacity is the number of evaluations kept when none is configured.
const DefaultCapacity = 100

// Evaluation is a recorded evaluation. Result is valid only when Error is
// empty.
type Evaluation struct {
	ID         string    `json:"id"`
	Tokens     []string  `json:"tokens"`
	Result     int       `json:"result"`
	Error      string    `json:"error,omitempty"`
	Kind       calc.Kind `json:"kind,omitempty"`
	CreateTime time.Time `json:"createTime"`
}

// Succeeded reports whether the evaluation produced a result.
func (e *Evaluation) Succeeded() bool {
	return e.Error == ""
}

func (e *Evaluation) clone() *Evaluation {
	c := *e
	c.Tokens = append([]string(nil), e.Tokens...)
	return &c
}

// Store is a thread-safe bounded history of evaluations. When full, the
// oldest evaluation is evicted.
type Store struct {
	mu       sync.RWMutex
	capacity int
	order    []string // oldest first
	byID     map[string]*Evaluation
}

// New creates an empty store holding at most capacity evaluations.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		byID:     make(map[string]*Evaluation),
	}
}

// Capacity returns the maximum number of evaluations kept.
func (s *Store) Capacity() int {
	return s.capacity
}

// Record stores the outcome of evaluating tokens and returns a copy of the
// new record. A non-nil err marks the evaluation as failed.
func (s *Store) Record(tokens []string, result int, err error) *Evaluation {
	ev := &Evaluation{
		ID:         uuid.NewString(),
		Tokens:     append([]string(nil), tokens...),
		CreateTime: time.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
		ev.Kind = calc.KindOf(err)
	} else {
		ev.Result = result
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	for len(s.order) > s.capacity {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	return ev.clone()
}

// Evaluate evaluates tokens, records the outcome and returns the record
// together with the evaluation error, if any.
func (s *Store) Evaluate(tokens []string) (*Evaluation, error) {
	result, err := calc.Evaluate(tokens)
	return s.Record(tokens, result, err), err
}

// Get retrieves an evaluation by ID.
func (s *Store) Get(id string) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("evaluation '%s' not found", id)
	}
	return ev.clone(), nil
}

// List returns all stored evaluations, newest first.
func (s *Store) List() []*Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Evaluation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.byID[s.order[i]].clone())
	}
	return result
}

// Len returns the number of stored evaluations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear removes all evaluations.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.byID = make(map[string]*Evaluation)
}
