package schema

import (
	"fmt"
	"math"
	"slices"
)

// Hist1D is a binned container with N regular bins plus underflow (index 0)
// and overflow (index N+1) slots. Errors are kept as a sum of squared weights.
type Hist1D struct {
	Name    string    `json:"name"`
	Title   string    `json:"title,omitempty"`
	XTitle  string    `json:"x_title,omitempty"`
	YTitle  string    `json:"y_title,omitempty"`
	Edges   []float64 `json:"edges"`   // N+1 bin edges
	Content []float64 `json:"content"` // N+2 values
	Sumw2   []float64 `json:"sumw2"`   // N+2 values
	Tags    Tags      `json:"-"`
}

// NewHist1D allocates an empty histogram over the given bin edges.
func NewHist1D(name, title string, edges []float64) *Hist1D {
	n := max(len(edges)-1, 0)
	return &Hist1D{
		Name:    name,
		Title:   title,
		Edges:   slices.Clone(edges),
		Content: make([]float64, n+2),
		Sumw2:   make([]float64, n+2),
		Tags:    ParseTags(name),
	}
}

// Hist1DFromArrays builds a histogram from raw content and error arrays.
// Both arrays must hold N+2 values including the flow slots; a nil errs
// slice defaults every error to sqrt(|content|).
func Hist1DFromArrays(name string, edges, content, errs []float64) (*Hist1D, error) {
	h := NewHist1D(name, "", edges)
	if len(content) != len(h.Content) {
		return nil, fmt.Errorf("%w: %s has %d content values, want %d", ErrShapeMismatch, name, len(content), len(h.Content))
	}
	if errs != nil && len(errs) != len(h.Content) {
		return nil, fmt.Errorf("%w: %s has %d error values, want %d", ErrShapeMismatch, name, len(errs), len(h.Content))
	}
	copy(h.Content, content)
	for i, c := range content {
		if errs != nil {
			h.Sumw2[i] = errs[i] * errs[i]
		} else {
			h.Sumw2[i] = math.Abs(c)
		}
	}
	return h, nil
}

// NBins returns the number of regular bins.
func (h *Hist1D) NBins() int { return len(h.Content) - 2 }

// BinContent returns the content of bin i.
func (h *Hist1D) BinContent(i int) float64 { return h.Content[i] }

// SetBinContent sets the content of bin i.
func (h *Hist1D) SetBinContent(i int, v float64) { h.Content[i] = v }

// BinError returns the error of bin i.
func (h *Hist1D) BinError(i int) float64 { return math.Sqrt(h.Sumw2[i]) }

// SetBinError sets the error of bin i.
func (h *Hist1D) SetBinError(i int, e float64) { h.Sumw2[i] = e * e }

// BinCenter returns the center of regular bin i (1-based).
func (h *Hist1D) BinCenter(i int) float64 { return 0.5 * (h.Edges[i-1] + h.Edges[i]) }

// BinWidth returns the width of regular bin i (1-based).
func (h *Hist1D) BinWidth(i int) float64 { return h.Edges[i] - h.Edges[i-1] }

// Integral sums content over bins lo..hi inclusive, clipped to the flow range.
func (h *Hist1D) Integral(lo, hi int) float64 {
	lo = max(lo, 0)
	hi = min(hi, len(h.Content)-1)
	var sum float64
	for i := lo; i <= hi; i++ {
		sum += h.Content[i]
	}
	return sum
}

// Scale multiplies content by c and squared errors by c².
func (h *Hist1D) Scale(c float64) {
	for i := range h.Content {
		h.Content[i] *= c
		h.Sumw2[i] *= c * c
	}
}

// Add accumulates other into h bin by bin.
func (h *Hist1D) Add(other *Hist1D) error {
	if err := h.CheckShape(other); err != nil {
		return err
	}
	for i := range h.Content {
		h.Content[i] += other.Content[i]
		h.Sumw2[i] += other.Sumw2[i]
	}
	return nil
}

// Reset zeroes content and errors.
func (h *Hist1D) Reset() {
	clear(h.Content)
	clear(h.Sumw2)
}

// Clone returns a deep copy renamed to name.
func (h *Hist1D) Clone(name string) *Hist1D {
	c := *h
	c.Name = name
	c.Edges = slices.Clone(h.Edges)
	c.Content = slices.Clone(h.Content)
	c.Sumw2 = slices.Clone(h.Sumw2)
	c.Tags = ParseTags(name)
	return &c
}

// CheckShape reports ErrShapeMismatch when other has a different bin count.
func (h *Hist1D) CheckShape(other *Hist1D) error {
	if other == nil {
		return fmt.Errorf("%w: %s compared against nil", ErrShapeMismatch, h.Name)
	}
	if h.NBins() != other.NBins() {
		return fmt.Errorf("%w: %s has %d bins, %s has %d", ErrShapeMismatch, h.Name, h.NBins(), other.Name, other.NBins())
	}
	return nil
}

// Hist2D is a rectangular grid with flow slots on both axes. Cells are
// stored row-major with global index x + (nx+2)*y.
type Hist2D struct {
	Name    string    `json:"name"`
	Title   string    `json:"title,omitempty"`
	XTitle  string    `json:"x_title,omitempty"`
	YTitle  string    `json:"y_title,omitempty"`
	XEdges  []float64 `json:"x_edges"`
	YEdges  []float64 `json:"y_edges"`
	Content []float64 `json:"content"`
	Sumw2   []float64 `json:"sumw2"`
	Tags    Tags      `json:"-"`
}

// NewHist2D allocates an empty grid over the given edges.
func NewHist2D(name, title string, xEdges, yEdges []float64) *Hist2D {
	nx := max(len(xEdges)-1, 0)
	ny := max(len(yEdges)-1, 0)
	return &Hist2D{
		Name:    name,
		Title:   title,
		XEdges:  slices.Clone(xEdges),
		YEdges:  slices.Clone(yEdges),
		Content: make([]float64, (nx+2)*(ny+2)),
		Sumw2:   make([]float64, (nx+2)*(ny+2)),
		Tags:    ParseTags(name),
	}
}

// Hist2DFromArrays builds a grid from raw row-major arrays including flow cells.
func Hist2DFromArrays(name string, xEdges, yEdges, content, errs []float64) (*Hist2D, error) {
	h := NewHist2D(name, "", xEdges, yEdges)
	if len(content) != len(h.Content) {
		return nil, fmt.Errorf("%w: %s has %d content values, want %d", ErrShapeMismatch, name, len(content), len(h.Content))
	}
	if errs != nil && len(errs) != len(h.Content) {
		return nil, fmt.Errorf("%w: %s has %d error values, want %d", ErrShapeMismatch, name, len(errs), len(h.Content))
	}
	copy(h.Content, content)
	for i, c := range content {
		if errs != nil {
			h.Sumw2[i] = errs[i] * errs[i]
		} else {
			h.Sumw2[i] = math.Abs(c)
		}
	}
	return h, nil
}

// NBinsX returns the number of regular bins along x.
func (h *Hist2D) NBinsX() int { return len(h.XEdges) - 1 }

// NBinsY returns the number of regular bins along y.
func (h *Hist2D) NBinsY() int { return len(h.YEdges) - 1 }

// Bin returns the global cell index for (x, y).
func (h *Hist2D) Bin(x, y int) int { return x + (h.NBinsX()+2)*y }

// BinContent returns the content of cell (x, y).
func (h *Hist2D) BinContent(x, y int) float64 { return h.Content[h.Bin(x, y)] }

// SetBinContent sets the content of cell (x, y).
func (h *Hist2D) SetBinContent(x, y int, v float64) { h.Content[h.Bin(x, y)] = v }

// BinError returns the error of cell (x, y).
func (h *Hist2D) BinError(x, y int) float64 { return math.Sqrt(h.Sumw2[h.Bin(x, y)]) }

// SetBinError sets the error of cell (x, y).
func (h *Hist2D) SetBinError(x, y int, e float64) { h.Sumw2[h.Bin(x, y)] = e * e }

// Integral sums content over the x range [x1,x2] and y range [y1,y2].
func (h *Hist2D) Integral(x1, x2, y1, y2 int) float64 {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2 = min(x2, h.NBinsX()+1)
	y2 = min(y2, h.NBinsY()+1)
	var sum float64
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			sum += h.BinContent(x, y)
		}
	}
	return sum
}

// Scale multiplies content by c and squared errors by c².
func (h *Hist2D) Scale(c float64) {
	for i := range h.Content {
		h.Content[i] *= c
		h.Sumw2[i] *= c * c
	}
}

// Add accumulates other into h cell by cell.
func (h *Hist2D) Add(other *Hist2D) error {
	if err := h.CheckShape(other); err != nil {
		return err
	}
	for i := range h.Content {
		h.Content[i] += other.Content[i]
		h.Sumw2[i] += other.Sumw2[i]
	}
	return nil
}

// Reset zeroes content and errors.
func (h *Hist2D) Reset() {
	clear(h.Content)
	clear(h.Sumw2)
}

// Clone returns a deep copy renamed to name.
func (h *Hist2D) Clone(name string) *Hist2D {
	c := *h
	c.Name = name
	c.XEdges = slices.Clone(h.XEdges)
	c.YEdges = slices.Clone(h.YEdges)
	c.Content = slices.Clone(h.Content)
	c.Sumw2 = slices.Clone(h.Sumw2)
	c.Tags = ParseTags(name)
	return &c
}

// CheckShape reports ErrShapeMismatch when other has a different grid.
func (h *Hist2D) CheckShape(other *Hist2D) error {
	if other == nil {
		return fmt.Errorf("%w: %s compared against nil", ErrShapeMismatch, h.Name)
	}
	if h.NBinsX() != other.NBinsX() || h.NBinsY() != other.NBinsY() {
		return fmt.Errorf("%w: %s is %dx%d, %s is %dx%d", ErrShapeMismatch,
			h.Name, h.NBinsX(), h.NBinsY(), other.Name, other.NBinsX(), other.NBinsY())
	}
	return nil
}

// HistogramSet maps histogram names to containers for one directory.
type HistogramSet struct {
	H1 map[string]*Hist1D `json:"h1"`
	H2 map[string]*Hist2D `json:"h2"`
}

// NewHistogramSet returns an empty set.
func NewHistogramSet() *HistogramSet {
	return &HistogramSet{H1: map[string]*Hist1D{}, H2: map[string]*Hist2D{}}
}

// Len returns the number of histograms held in both dimensions.
func (s *HistogramSet) Len() int { return len(s.H1) + len(s.H2) }

// Names1D returns the sorted 1D histogram names.
func (s *HistogramSet) Names1D() []string {
	names := make([]string, 0, len(s.H1))
	for n := range s.H1 {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Names2D returns the sorted 2D histogram names.
func (s *HistogramSet) Names2D() []string {
	names := make([]string, 0, len(s.H2))
	for n := range s.H2 {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Scale multiplies every histogram in the set by c.
func (s *HistogramSet) Scale(c float64) {
	for _, h := range s.H1 {
		h.Scale(c)
	}
	for _, h := range s.H2 {
		h.Scale(c)
	}
}

// Retag re-derives Tags for every histogram. Tags are not serialized, so
// sets decoded from JSON need this before use.
func (s *HistogramSet) Retag() {
	for name, h := range s.H1 {
		h.Tags = ParseTags(name)
	}
	for name, h := range s.H2 {
		h.Tags = ParseTags(name)
	}
}
