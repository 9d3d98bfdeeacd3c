// Package source reads and writes histogram source documents.
package source

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/huangsam/rateplot/schema"
)

// Document is the on-disk form of one histogram source.
type Document struct {
	Name        string               `yaml:"name" json:"name" validate:"required"`
	VirtualLumi float64              `yaml:"virtual_lumi,omitempty" json:"virtual_lumi,omitempty" validate:"gte=0,finite"`
	Directories map[string]Directory `yaml:"directories" json:"directories" validate:"required,min=1,dive,keys,required,endkeys"`
}

// Directory groups the histograms stored under one key.
type Directory struct {
	Histograms []HistogramDoc `yaml:"histograms" json:"histograms" validate:"dive"`
}

// HistogramDoc is a 1D histogram, or a 2D one when YEdges is present.
// Content and Errors include the flow slots.
type HistogramDoc struct {
	Name    string    `yaml:"name" json:"name" validate:"required"`
	XTitle  string    `yaml:"x_title,omitempty" json:"x_title,omitempty"`
	YTitle  string    `yaml:"y_title,omitempty" json:"y_title,omitempty"`
	XEdges  []float64 `yaml:"x_edges" json:"x_edges" validate:"required,min=2,finite,ascending"`
	YEdges  []float64 `yaml:"y_edges,omitempty" json:"y_edges,omitempty" validate:"omitempty,min=2,finite,ascending"`
	Content []float64 `yaml:"content" json:"content" validate:"required,finite"`
	Errors  []float64 `yaml:"errors,omitempty" json:"errors,omitempty" validate:"omitempty,finite"`
}

var docValidate *validator.Validate

func init() {
	docValidate = validator.New()
	_ = docValidate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch v := fl.Field().Interface().(type) {
		case float64:
			return isFinite(v)
		case []float64:
			return !slices.ContainsFunc(v, func(x float64) bool { return !isFinite(x) })
		default:
			return false
		}
	})
	_ = docValidate.RegisterValidation("ascending", func(fl validator.FieldLevel) bool {
		edges, ok := fl.Field().Interface().([]float64)
		if !ok {
			return false
		}
		for i := 1; i < len(edges); i++ {
			if edges[i] <= edges[i-1] {
				return false
			}
		}
		return true
	})
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate checks the struct tags of the document.
func (d *Document) Validate() error {
	if err := docValidate.Struct(d); err != nil {
		return fmt.Errorf("%w: source %q: %w", schema.ErrConfiguration, d.Name, err)
	}
	return nil
}

// Is2D reports whether the histogram has a y axis.
func (h HistogramDoc) Is2D() bool { return len(h.YEdges) > 0 }

// ToSet converts a directory into a histogram set.
func (d Directory) ToSet() (*schema.HistogramSet, error) {
	set := schema.NewHistogramSet()
	for _, hd := range d.Histograms {
		if hd.Is2D() {
			h, err := schema.Hist2DFromArrays(hd.Name, hd.XEdges, hd.YEdges, hd.Content, hd.Errors)
			if err != nil {
				return nil, err
			}
			h.XTitle, h.YTitle = hd.XTitle, hd.YTitle
			set.H2[hd.Name] = h
			continue
		}
		h, err := schema.Hist1DFromArrays(hd.Name, hd.XEdges, hd.Content, hd.Errors)
		if err != nil {
			return nil, err
		}
		h.XTitle, h.YTitle = hd.XTitle, hd.YTitle
		set.H1[hd.Name] = h
	}
	return set, nil
}

// FromHist1D converts a histogram into its document form.
func FromHist1D(h *schema.Hist1D) HistogramDoc {
	errs := make([]float64, len(h.Content))
	for i := range errs {
		errs[i] = h.BinError(i)
	}
	return HistogramDoc{
		Name: h.Name, XTitle: h.XTitle, YTitle: h.YTitle,
		XEdges: slices.Clone(h.Edges), Content: slices.Clone(h.Content), Errors: errs,
	}
}

// FromHist2D converts a grid into its document form.
func FromHist2D(h *schema.Hist2D) HistogramDoc {
	errs := make([]float64, len(h.Content))
	for i, w := range h.Sumw2 {
		errs[i] = math.Sqrt(w)
	}
	return HistogramDoc{
		Name: h.Name, XTitle: h.XTitle, YTitle: h.YTitle,
		XEdges: slices.Clone(h.XEdges), YEdges: slices.Clone(h.YEdges),
		Content: slices.Clone(h.Content), Errors: errs,
	}
}

// FromSet converts a histogram set into a directory, ordered by name.
func FromSet(set *schema.HistogramSet) Directory {
	var d Directory
	for _, name := range set.Names1D() {
		d.Histograms = append(d.Histograms, FromHist1D(set.H1[name]))
	}
	for _, name := range set.Names2D() {
		d.Histograms = append(d.Histograms, FromHist2D(set.H2[name]))
	}
	return d
}
