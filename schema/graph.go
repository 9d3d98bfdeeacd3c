package schema

// GraphPoint is one point of a rate graph with asymmetric errors.
type GraphPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	EXL float64 `json:"exl"`
	EXH float64 `json:"exh"`
	EYL float64 `json:"eyl"`
	EYH float64 `json:"eyh"`
}

// RateGraph is the point-set form of a rate result.
type RateGraph struct {
	Name    string       `json:"name"`
	Label   string       `json:"label,omitempty"`
	Palette PaletteKey   `json:"palette"`
	XTitle  string       `json:"x_title,omitempty"`
	Points  []GraphPoint `json:"points"`
	Tags    Tags         `json:"tags"`
}

// N returns the number of points.
func (g *RateGraph) N() int { return len(g.Points) }

// RateResult bundles the histogram and graph forms of one pass/total division.
type RateResult struct {
	Source SourceLabel `json:"source"`
	Pass   string      `json:"pass"`
	Total  string      `json:"total"`
	Hist   *Hist1D     `json:"hist"`
	Graph  *RateGraph  `json:"graph"`
	Stored string      `json:"stored,omitempty"` // result name when written to the results store
}

// RateResult2D is the 2D counterpart of RateResult.
type RateResult2D struct {
	Source SourceLabel `json:"source"`
	Pass   string      `json:"pass"`
	Total  string      `json:"total"`
	Hist   *Hist2D     `json:"hist"`
	Stored string      `json:"stored,omitempty"`
}

// RateComparison holds graphs computed for several inputs and their ratios
// against the first one.
type RateComparison struct {
	Name   string       `json:"name"`
	Graphs []*RateGraph `json:"graphs"`
	Ratios []*RateGraph `json:"ratios"`
}

// SourceYield is the yield of one MC origin.
type SourceYield struct {
	Flavor    string  `json:"flavor"`
	Quality   string  `json:"quality"`
	Leg       string  `json:"leg"`
	Source    string  `json:"source"`
	Histogram string  `json:"histogram"`
	Origin    string  `json:"origin"`
	Yield     float64 `json:"yield"`
}

// ClassFraction is the share of one truth class in the loose leg-0 selection.
type ClassFraction struct {
	Flavor    string  `json:"flavor"`
	Histogram string  `json:"histogram"`
	Class     string  `json:"class"`
	Fraction  float64 `json:"fraction"`
	Against   float64 `json:"against,omitempty"`
}

// VariationResult holds a differencer output and, for 2D inputs, its projections.
type VariationResult struct {
	Kind      string  `json:"kind"` // e.g. "Fake mu"
	Nominal   string  `json:"nominal"`
	Variation string  `json:"variation"`
	Diff1D    *Hist1D `json:"diff_1d,omitempty"`
	Diff2D    *Hist2D `json:"diff_2d,omitempty"`
	ProjX     *Hist1D `json:"proj_x,omitempty"`
	ProjY     *Hist1D `json:"proj_y,omitempty"`
}

// RatePair is every sample's rate for one pass/total pair. Ratios divide each
// later sample's graph by the first one.
type RatePair struct {
	Pass    string       `json:"pass"`
	Total   string       `json:"total"`
	Results []RateResult `json:"results"`
	Ratios  []*RateGraph `json:"ratios,omitempty"`
}

// RateReport is the outcome of a 1D rate run.
type RateReport struct {
	RateType RateType   `json:"rate_type,omitempty"`
	Pairs    []RatePair `json:"pairs"`
	RunID    string     `json:"run_id,omitempty"`
	Written  int        `json:"written"`
}

// Rate2DReport is the outcome of a 2D rate run.
type Rate2DReport struct {
	RateType RateType       `json:"rate_type,omitempty"`
	Results  []RateResult2D `json:"results"`
	RunID    string         `json:"run_id,omitempty"`
	Written  int            `json:"written"`
}

// ClassReport lists the class fractions of one or two files.
type ClassReport struct {
	File      string          `json:"file"`
	Against   string          `json:"against,omitempty"`
	Fractions []ClassFraction `json:"fractions"`
}

// VariationReport lists the differencer outputs of one results file key.
type VariationReport struct {
	FileKey   string            `json:"file_key"`
	Variation string            `json:"variation"`
	Results   []VariationResult `json:"results"`
}
