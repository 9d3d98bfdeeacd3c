package core

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

func TestMain(m *testing.M) {
	contract.SetDiagnosticOutput(io.Discard)
	os.Exit(m.Run())
}

var testEdges = []float64{10, 20, 40}

// h1 is a two-bin histogram document with empty flow slots.
func h1(name string, b1, b2 float64) source.HistogramDoc {
	return source.HistogramDoc{Name: name, XEdges: testEdges, Content: []float64{0, b1, b2, 0}}
}

// h2 is a 2x1 grid document: cells (1,1) and (2,1).
func h2(name string, c11, c21 float64) source.HistogramDoc {
	content := make([]float64, 4*3)
	content[1+4*1] = c11
	content[2+4*1] = c21
	return source.HistogramDoc{Name: name, XEdges: []float64{10, 20, 40}, YEdges: []float64{0, 2.5}, Content: content}
}

// writeSample writes a source document with one directory per entry of dirs.
func writeSample(t *testing.T, root, file string, lumi float64, dirs map[string][]source.HistogramDoc) string {
	t.Helper()
	doc := &source.Document{Name: file, VirtualLumi: lumi, Directories: map[string]source.Directory{}}
	for key, hs := range dirs {
		doc.Directories[key] = source.Directory{Histograms: hs}
	}
	path := filepath.Join(root, file)
	require.NoError(t, source.WriteSource(path, doc))
	return path
}

// testConfig returns the configuration the pipelines see after flag processing.
func testConfig(inputDir string) *contract.Config {
	return &contract.Config{
		InputDir:  inputDir,
		Include:   []string{schema.DefaultIncludeGlob},
		Dirs:      []string{schema.DefaultEffDir},
		Lumi:      1,
		RateType:  schema.FakeRate,
		OutName:   contract.DefaultOutName,
		Precision: contract.DefaultPrecision,
		Output:    schema.TextOut,
	}
}

// quietCtx suppresses the run headers.
func quietCtx() context.Context {
	return WithSuppressHeader(context.Background())
}

// standardSamples writes an MC sample with HF companions and a Data sample.
func standardSamples(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeSample(t, root, "mc_ttbar.yaml", 2, map[string][]source.HistogramDoc{
		schema.DefaultEffDir: {
			h1("histoTight_el0", 4, 2),
			h1("histoLoose_el0", 8, 4),
			h1("histoTight_HF_electron0", 2, 1),
			h1("histoLoose_HF_electron0", 4, 2),
		},
	})
	writeSample(t, root, "data_AllYear.yaml", 0, map[string][]source.HistogramDoc{
		schema.DefaultEffDir: {
			h1("histoTight_el0", 6, 3),
			h1("histoLoose_el0", 10, 6),
		},
	})
	return root
}
