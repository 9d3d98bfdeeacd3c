package algo

import (
	"fmt"
	"strings"

	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// compositeSlot describes one merged histogram: the template it is cloned
// from, its own name and the rule selecting the histograms summed into it.
type compositeSlot struct {
	template string
	name     string
	quality  string // "histoLoose" or "histoTight"
	leg      string // "0", "1" or "" for the inclusive composite
}

func compositeSlots(f schema.Flavor) []compositeSlot {
	short, long := f.Short(), f.Long()
	var slots []compositeSlot
	for _, q := range []string{"Loose", "Tight"} {
		slots = append(slots,
			compositeSlot{"histo" + q + "_" + short + "0", "histo" + q + "_Fakes_" + long + "0", "histo" + q, "0"},
			compositeSlot{"histo" + q + "_" + short + "1", "histo" + q + "_Fakes_" + long + "1", "histo" + q, "1"},
			compositeSlot{"all_histo" + q + "_" + short, "all_histo" + q + "_Fakes_" + long, "histo" + q, ""},
		)
	}
	return slots
}

// matches applies the substring rules for one source tag. Electron
// charge-flip and conversion tags also match on a bare leg digit, so a
// histogram can be added twice for the same tag.
func (s compositeSlot) matches(name, tag string, f schema.Flavor) int {
	if !strings.Contains(name, tag) {
		return 0
	}
	long := f.Long()
	hits := 0
	if s.leg == "" {
		if strings.Contains(name, "all_"+s.quality) && strings.Contains(name, long) {
			hits++
		}
	} else if strings.Contains(name, s.quality) && strings.Contains(name, long+s.leg) {
		hits++
	}
	if f == schema.Electron && (tag == "charge_flip" || tag == "conversion") {
		if s.leg == "" {
			if strings.Contains(name, "all_"+s.quality) {
				hits++
			}
		} else if strings.Contains(name, s.quality) && strings.Contains(name, s.leg) {
			hits++
		}
	}
	return hits
}

// MergeComposites adds the six loose/tight leg-0, leg-1 and inclusive fake
// composites for flavor f to set, each summing the histograms that match one
// of sourceTags. All templates must exist; otherwise the set is unchanged.
func MergeComposites(set *schema.HistogramSet, f schema.Flavor, sourceTags []string) error {
	if set == nil || set.Len() == 0 || len(sourceTags) == 0 || f == schema.FlavorUnknown {
		return fmt.Errorf("%w: empty input or no lepton flavor selected", schema.ErrConfiguration)
	}
	slots := compositeSlots(f)
	for _, s := range slots {
		if set.H1[s.template] == nil {
			return fmt.Errorf("%w: template %s not found", schema.ErrConfiguration, s.template)
		}
	}
	for _, tag := range sourceTags {
		contract.LogDebug("addFakeHist", "Merging %s histograms with suffix : %s", f.Long(), tag)
	}

	merged := make([]*schema.Hist1D, len(slots))
	for i, s := range slots {
		merged[i] = set.H1[s.template].Clone(s.name)
		merged[i].Reset()
	}
	for _, name := range set.Names1D() {
		h := set.H1[name]
		for _, tag := range sourceTags {
			for i, s := range slots {
				for range s.matches(name, tag, f) {
					if err := merged[i].Add(h); err != nil {
						contract.LogWarn("addFakeHist "+name, err)
					}
				}
			}
		}
	}
	for _, h := range merged {
		set.H1[h.Name] = h
	}
	return nil
}
