package input

import (
	"errors"
	"sync"
)

// ErrNoSample is returned by a scripted sampler tick that simulates an OS
// query failure.
var ErrNoSample = errors.New("no sample for this tick")

// ScriptedSampler replays a fixed sequence of samples, for tests. A nil
// entry in the script simulates a failed OS query. After the script is
// exhausted the last successful sample repeats.
type ScriptedSampler struct {
	mu     sync.Mutex
	script []*Sample
	pos    int
	last   Sample
	have   bool
}

// NewScriptedSampler creates a sampler replaying the given script.
func NewScriptedSampler(script ...*Sample) *ScriptedSampler {
	return &ScriptedSampler{script: script}
}

// Append adds more samples to the script.
func (s *ScriptedSampler) Append(samples ...*Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, samples...)
}

// Sample returns the next scripted sample.
func (s *ScriptedSampler) Sample() (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.script) {
		if s.have {
			return s.last, nil
		}
		return Sample{}, ErrNoSample
	}

	next := s.script[s.pos]
	s.pos++
	if next == nil {
		return Sample{}, ErrNoSample
	}
	s.last, s.have = *next, true
	return *next, nil
}

// Available always succeeds.
func (s *ScriptedSampler) Available() (bool, string) {
	return true, "scripted sampler (for testing)"
}

// KeysDown builds a sample key map from the given codes.
func KeysDown(codes ...uint16) map[uint16]bool {
	keys := make(map[uint16]bool, len(codes))
	for _, c := range codes {
		keys[c] = true
	}
	return keys
}
