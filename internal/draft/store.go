package draft

import (
	"sync"
)

// Listener is called after a dispatch changed the draft.
type Listener func(prev, next EditorDraft, a Action)

// Store holds the current draft and serializes dispatches.
type Store struct {
	mu      sync.RWMutex
	draft   EditorDraft
	reducer Reducer

	listeners []Listener
}

// NewStore creates a store holding d.
func NewStore(d EditorDraft) *Store {
	return &Store{draft: d, reducer: defaultReducer}
}

// NewStoreWithReducer creates a store that applies actions with r.
func NewStoreWithReducer(d EditorDraft, r Reducer) *Store {
	return &Store{draft: d, reducer: r}
}

// Draft returns the current draft.
func (s *Store) Draft() EditorDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Subscribe registers a listener for draft changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies a and returns the new draft. Listeners and the
// AddImageSticker Created callback run after the store is unlocked, so they
// may read the store or dispatch again.
func (s *Store) Dispatch(a Action) EditorDraft {
	s.mu.Lock()
	prev := s.draft
	next, changed := s.reducer.Apply(prev, a)
	s.draft = next
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(prev, next, a)
		}
		reportCreated(a, next)
	}
	return next
}

// DispatchFunc picks an action from the current draft and applies it in one
// step, so the choice cannot go stale. It reports false when fn declined.
func (s *Store) DispatchFunc(fn func(EditorDraft) (Action, bool)) (EditorDraft, bool) {
	s.mu.Lock()
	prev := s.draft
	a, ok := fn(prev)
	if !ok {
		s.mu.Unlock()
		return prev, false
	}
	next, changed := s.reducer.Apply(prev, a)
	s.draft = next
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(prev, next, a)
		}
		reportCreated(a, next)
	}
	return next, true
}

// Replace swaps in a whole draft, for example one restored from disk.
func (s *Store) Replace(d EditorDraft) {
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
}
