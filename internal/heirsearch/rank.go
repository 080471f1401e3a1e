package heirsearch

import (
	"cmp"
	"slices"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
)

type scoredHit struct {
	hit        models.RelativeHit
	provenance string
}

// dedupe collapses hits sharing a normalized (name, address). The highest
// confidence hit wins; ties keep the first seen. Provenance is the union
// and blank county/address fields are filled from the other hits.
func dedupe(hits []scoredHit) []models.HeirCandidate {
	index := make(map[string]int, len(hits))
	var out []models.HeirCandidate
	for _, sh := range hits {
		h := sh.hit
		name := strings.Join(strings.Fields(h.Name), " ")
		if normalize.Name(name) == "" {
			continue
		}
		c := models.HeirCandidate{
			Name:       name,
			Relation:   strings.TrimSpace(h.Relation),
			Confidence: clamp(h.Confidence),
			Address:    strings.TrimSpace(h.Address),
			County:     strings.TrimSpace(h.County),
			Provenance: []string{sh.provenance},
		}
		key := normalize.Key(c.Name, c.Address)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		out[i] = mergeCandidates(out[i], c)
	}
	return out
}

func mergeCandidates(kept, other models.HeirCandidate) models.HeirCandidate {
	winner, loser := kept, other
	if other.Confidence > kept.Confidence {
		winner, loser = other, kept
	}
	if winner.Address == "" {
		winner.Address = loser.Address
	}
	if winner.County == "" {
		winner.County = loser.County
	}
	if winner.Relation == "" {
		winner.Relation = loser.Relation
	}
	prov := slices.Concat(kept.Provenance, other.Provenance)
	slices.Sort(prov)
	winner.Provenance = slices.Compact(prov)
	return winner
}

// rank orders by confidence, then by county match, then by name.
func rank(candidates []models.HeirCandidate, county string) []models.HeirCandidate {
	slices.SortStableFunc(candidates, func(a, b models.HeirCandidate) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		am, bm := normalize.SameCounty(a.County, county), normalize.SameCounty(b.County, county)
		if am != bm {
			if am {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(normalize.Name(a.Name), normalize.Name(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if candidates == nil {
		return []models.HeirCandidate{}
	}
	return candidates
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
