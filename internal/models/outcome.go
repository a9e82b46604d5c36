package models

import "sync"

// OutcomeTag classifies the result of one (item, artwork kind) unit of work
type OutcomeTag string

const (
	OutcomeWritten          OutcomeTag = "written"
	OutcomeSkippedExists    OutcomeTag = "skipped-exists"
	OutcomeSkippedNoArtwork OutcomeTag = "skipped-no-artwork"
	OutcomeSkippedBadFolder OutcomeTag = "skipped-non-standard-folder"
	OutcomeFailed           OutcomeTag = "failed"
)

// Outcome records the result of one unit of work
type Outcome struct {
	Title  string
	Kind   ArtworkKind
	Tag    OutcomeTag
	Path   string // destination path, set when written
	Reason string // set when failed or skipped-non-standard-folder
}

// Skipped reports whether this outcome is any of the skip variants
func (o Outcome) Skipped() bool {
	switch o.Tag {
	case OutcomeSkippedExists, OutcomeSkippedNoArtwork, OutcomeSkippedBadFolder:
		return true
	}
	return false
}

// Summary aggregates outcomes across a run. Safe for concurrent use.
type Summary struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// Record appends one outcome
func (s *Summary) Record(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

// Outcomes returns a copy of all recorded outcomes in record order
func (s *Summary) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Count returns the number of outcomes for the given artwork kind and tag
func (s *Summary) Count(kind ArtworkKind, tag OutcomeTag) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.outcomes {
		if o.Kind == kind && o.Tag == tag {
			n++
		}
	}
	return n
}

// CountSkipped returns the number of skip outcomes (all variants) for a kind
func (s *Summary) CountSkipped(kind ArtworkKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.outcomes {
		if o.Kind == kind && o.Skipped() {
			n++
		}
	}
	return n
}

// Failures returns all failed outcomes in record order
func (s *Summary) Failures() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Outcome
	for _, o := range s.outcomes {
		if o.Tag == OutcomeFailed {
			out = append(out, o)
		}
	}
	return out
}
