package waterfall

import (
	"fmt"

	"heirfinder/internal/enrichment/models"
)

// State is the position of one waterfall run.
type State int

const (
	StatePending State = iota
	StateTrying
	StateSucceeded
	StateExhaustedFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTrying:
		return "trying"
	case StateSucceeded:
		return "succeeded"
	case StateExhaustedFailed:
		return "exhausted_failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SufficiencyPolicy decides whether the merged contact is good enough to
// stop calling providers. It does not decide success: a run succeeds when
// any field was recovered.
type SufficiencyPolicy func(models.CanonicalContact) bool

// AnyChannel stops as soon as any canonical field is populated.
func AnyChannel(c models.CanonicalContact) bool {
	return !c.IsEmpty()
}

// BothChannels keeps going until there is at least one email and one phone.
// This is the default.
func BothChannels(c models.CanonicalContact) bool {
	return c.HasEmail() && c.HasPhone()
}

// run is the mutable bookkeeping of one Enrich call. It never escapes the call.
type run struct {
	state     State
	index     int
	attempted []models.ProviderID
	merged    models.CanonicalContact
	source    *models.ProviderID
}

func newRun(capacity int) *run {
	return &run{
		state:     StatePending,
		attempted: make([]models.ProviderID, 0, capacity),
	}
}

func (r *run) try(i int, id models.ProviderID) {
	r.state = StateTrying
	r.index = i
	r.attempted = append(r.attempted, id)
}

// merge fills empty fields from contact. Fields already set by an earlier
// provider are kept. It reports whether id contributed anything.
func (r *run) merge(id models.ProviderID, contact models.CanonicalContact) bool {
	contributed := false
	for _, f := range models.ContactFields {
		if r.merged.Get(f) != "" {
			continue
		}
		if v := contact.Get(f); v != "" {
			r.merged = r.merged.With(f, v)
			contributed = true
		}
	}
	if contributed && r.source == nil {
		src := id
		r.source = &src
	}
	return contributed
}

// finish freezes the run into the caller-facing result.
func (r *run) finish() models.EnrichmentResult {
	result := models.EnrichmentResult{
		Success:       !r.merged.IsEmpty(),
		APIsAttempted: r.attempted,
	}
	if result.Success {
		r.state = StateSucceeded
		contact := r.merged
		result.Contact = &contact
		result.Source = r.source
	} else {
		r.state = StateExhaustedFailed
	}
	return result
}
