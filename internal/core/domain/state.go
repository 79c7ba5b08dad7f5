package domain

import "sync"

// BinaryProduct is a prebuilt product a source target links instead of building.
type BinaryProduct struct {
	Target InternedString
	Name   string
	// Folder is the directory of the product inside the build products
	// directory, usually the target name.
	Folder string
	Type   ProductType
	// Path is the absolute location of the product file in binaries storage.
	Path string
}

// TargetState carries per-run derived data for a target.
type TargetState struct {
	Fingerprint        string
	Context            *TargetContext
	BinaryDependencies []InternedString
	BinaryProducts     []BinaryProduct
}

// TargetStates is a concurrency-safe side table of per-target state.
// Targets themselves stay plain data.
type TargetStates struct {
	mu     sync.RWMutex
	states map[InternedString]*TargetState
}

// NewTargetStates creates an empty side table.
func NewTargetStates() *TargetStates {
	return &TargetStates{states: make(map[InternedString]*TargetState)}
}

// Get returns a copy of the state recorded for id.
func (s *TargetStates) Get(id InternedString) (TargetState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok {
		return TargetState{}, false
	}
	return *st, true
}

// Fingerprint returns the fingerprint recorded for id.
func (s *TargetStates) Fingerprint(id InternedString) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok || st.Fingerprint == "" {
		return "", false
	}
	return st.Fingerprint, true
}

// Update applies fn to the state of id under the write lock.
func (s *TargetStates) Update(id InternedString, fn func(*TargetState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		st = &TargetState{}
		s.states[id] = st
	}
	fn(st)
}
