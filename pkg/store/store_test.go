package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndGet(t *testing.T) {
	s := New(10)

	ok := s.Record([]string{"2", "+", "3"}, 5, nil)
	require.NotEmpty(t, ok.ID)
	assert.True(t, ok.Succeeded())
	assert.Equal(t, 5, ok.Result)
	assert.False(t, ok.CreateTime.IsZero())

	_, evalErr := calc.Evaluate([]string{"5", "/", "0"})
	failed := s.Record([]string{"5", "/", "0"}, 0, evalErr)
	assert.False(t, failed.Succeeded())
	assert.Equal(t, "division by zero", failed.Error)
	assert.Equal(t, calc.KindDivisionByZero, failed.Kind)
	assert.NotEqual(t, ok.ID, failed.ID)

	got, err := s.Get(ok.ID)
	require.NoError(t, err)
	assert.Equal(t, ok, got)

	_, err = s.Get("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestEvaluate(t *testing.T) {
	s := New(10)

	ev, err := s.Evaluate([]string{"2", "+", "3", "x", "4"})
	require.NoError(t, err)
	assert.Equal(t, 14, ev.Result)

	ev, err = s.Evaluate([]string{"1", "*", "2"})
	assert.ErrorIs(t, err, calc.ErrInvalidOperator)
	assert.Equal(t, calc.KindInvalidOperator, ev.Kind)
	assert.Equal(t, "invalid operator: *", ev.Error)
	assert.Equal(t, 2, s.Len())
}

func TestRecordNonCalcError(t *testing.T) {
	s := New(1)
	ev := s.Record([]string{"1"}, 0, errors.New("boom"))
	assert.Equal(t, "boom", ev.Error)
	assert.Empty(t, ev.Kind)
}

func TestListNewestFirstAndEviction(t *testing.T) {
	s := New(3)
	var ids []string
	for i := 0; i < 5; i++ {
		ev := s.Record([]string{fmt.Sprint(i)}, i, nil)
		ids = append(ids, ev.ID)
	}

	assert.Equal(t, 3, s.Len())
	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []int{4, 3, 2}, []int{list[0].Result, list[1].Result, list[2].Result})

	_, err := s.Get(ids[0])
	assert.Error(t, err, "oldest evaluation should be evicted")
	_, err = s.Get(ids[4])
	assert.NoError(t, err)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New(5)
	tokens := []string{"1", "+", "1"}
	ev := s.Record(tokens, 2, nil)

	tokens[0] = "9"
	ev.Tokens[2] = "9"
	ev.Result = 99

	got, err := s.Get(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "+", "1"}, got.Tokens)
	assert.Equal(t, 2, got.Result)
}

func TestClear(t *testing.T) {
	s := New(0)
	assert.Equal(t, DefaultCapacity, s.Capacity())
	s.Record([]string{"1"}, 1, nil)
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.List())
}

func TestConcurrentRecord(t *testing.T) {
	s := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Record([]string{"1"}, 1, nil)
			s.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
