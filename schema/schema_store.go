package schema

import "time"

// StoredResult is one rate or differencer container kept in the results store.
// Exactly one of H1 and H2 is set, matching Dimension.
type StoredResult struct {
	FileKey   string    `json:"file_key"`
	Name      string    `json:"name"`
	RunID     string    `json:"run_id"`
	Dimension int       `json:"dimension"`
	Category  RateType  `json:"category"`
	Source    string    `json:"source"`
	Flavor    string    `json:"flavor"`
	WrittenAt time.Time `json:"written_at"`
	H1        *Hist1D   `json:"h1,omitempty"`
	H2        *Hist2D   `json:"h2,omitempty"`
}

// RunRecord represents a row from the rateplot_runs table.
type RunRecord struct {
	RunID          string
	Command        string
	StartTime      time.Time
	EndTime        *time.Time
	ResultsWritten int32
	ConfigParams   *string
}

// ResultBinRecord is one regular bin of a stored result, flattened for
// export. BinY and the Y edges are zero for 1D results.
type ResultBinRecord struct {
	RunID     string
	FileKey   string
	Name      string
	Category  string
	Source    string
	Flavor    string
	Dimension int32
	BinX      int32
	BinY      int32
	XLow      float64
	XHigh     float64
	YLow      float64
	YHigh     float64
	Content   float64
	Error     float64
	WrittenAt time.Time
}

// Bins flattens the regular bins of the stored container. Flow slots are
// not exported.
func (r StoredResult) Bins() []ResultBinRecord {
	base := ResultBinRecord{
		RunID:     r.RunID,
		FileKey:   r.FileKey,
		Name:      r.Name,
		Category:  string(r.Category),
		Source:    r.Source,
		Flavor:    r.Flavor,
		Dimension: int32(r.Dimension),
		WrittenAt: r.WrittenAt,
	}

	var out []ResultBinRecord
	switch {
	case r.H1 != nil:
		for i := 1; i <= r.H1.NBins(); i++ {
			b := base
			b.BinX = int32(i)
			b.XLow, b.XHigh = r.H1.Edges[i-1], r.H1.Edges[i]
			b.Content, b.Error = r.H1.BinContent(i), r.H1.BinError(i)
			out = append(out, b)
		}
	case r.H2 != nil:
		for y := 1; y <= r.H2.NBinsY(); y++ {
			for x := 1; x <= r.H2.NBinsX(); x++ {
				b := base
				b.BinX, b.BinY = int32(x), int32(y)
				b.XLow, b.XHigh = r.H2.XEdges[x-1], r.H2.XEdges[x]
				b.YLow, b.YHigh = r.H2.YEdges[y-1], r.H2.YEdges[y]
				b.Content, b.Error = r.H2.BinContent(x, y), r.H2.BinError(x, y)
				out = append(out, b)
			}
		}
	}
	return out
}
