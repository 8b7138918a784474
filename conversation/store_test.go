package conversation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultsToSearching(t *testing.T) {
	s := NewStore()

	rec := s.Get(42)
	assert.Equal(t, StateSearching, rec.State)
	assert.False(t, rec.Adding())
	assert.Zero(t, rec.PromptMessageID)
}

func TestPutOverwritesAndGetReturnsCopy(t *testing.T) {
	s := NewStore()

	rec := NewRecord()
	rec.State = StateAdding
	rec.Step = StepYear
	rec.Draft.Title = "Matrix"
	s.Put(7, rec)

	got := s.Get(7)
	require.Equal(t, StateAdding, got.State)
	assert.Equal(t, StepYear, got.Step)
	assert.Equal(t, "Matrix", got.Draft.Title)

	// Mutating the copy must not leak back into the store.
	got.Draft.Title = "changed"
	assert.Equal(t, "Matrix", s.Get(7).Draft.Title)
}

func TestResetDropsDraftAndPrompt(t *testing.T) {
	s := NewStore()

	rec := NewRecord()
	rec.State = StateAdding
	rec.Step = StepCode
	rec.Draft = Draft{Title: "Matrix", Year: 1999}
	rec.PromptMessageID = 15
	s.Put(7, rec)

	s.Reset(7)

	got := s.Get(7)
	assert.Equal(t, StateSearching, got.State)
	assert.Equal(t, Draft{}, got.Draft)
	assert.Zero(t, got.PromptMessageID)
}

func TestDeleteEquivalentToDefault(t *testing.T) {
	s := NewStore()
	s.Put(9, Record{State: StateAdding, Step: StepTitle})

	s.Delete(9)

	assert.Equal(t, NewRecord(), s.Get(9))
}

func TestSetPromptMessageIDCreatesAndPreserves(t *testing.T) {
	s := NewStore()

	// On a user with no record the default searching record is created.
	s.SetPromptMessageID(1, 100)
	got := s.Get(1)
	assert.Equal(t, StateSearching, got.State)
	assert.Equal(t, 100, got.PromptMessageID)

	// On an existing record the workflow state is untouched.
	s.Put(2, Record{State: StateAdding, Step: StepGenre, Draft: Draft{Title: "x"}})
	s.SetPromptMessageID(2, 200)
	got = s.Get(2)
	assert.Equal(t, StateAdding, got.State)
	assert.Equal(t, StepGenre, got.Step)
	assert.Equal(t, 200, got.PromptMessageID)
}

func TestLockSerializesSameUser(t *testing.T) {
	s := NewStore()

	unlock := s.Lock(5)
	acquired := make(chan struct{})
	go func() {
		u := s.Lock(5)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestLockIndependentUsersDoNotContend(t *testing.T) {
	s := NewStore()

	unlock := s.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := s.Lock(2)
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another user blocked")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				unlock := s.Lock(id)
				rec := s.Get(id)
				rec.State = StateAdding
				rec.Step = StepTitle
				s.Put(id, rec)
				s.Reset(id)
				unlock()
			}
		}(int64(i % 4))
	}
	wg.Wait()

	for id := int64(0); id < 4; id++ {
		assert.Equal(t, StateSearching, s.Get(id).State)
	}
}
