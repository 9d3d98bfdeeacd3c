package schema

import "time"

// SourceHandle is an opened histogram source. Directories holds the decoded
// histograms; readers hand out copies so callers may mutate what they get.
type SourceHandle struct {
	Path        string
	Name        string
	Kind        SampleKind
	Size        int64
	ModTime     time.Time
	VirtualLumi float64
	Directories map[string]*HistogramSet
}

// Clone returns a deep copy of the set.
func (s *HistogramSet) Clone() *HistogramSet {
	out := NewHistogramSet()
	for name, h := range s.H1 {
		out.H1[name] = h.Clone(name)
	}
	for name, h := range s.H2 {
		out.H2[name] = h.Clone(name)
	}
	return out
}
