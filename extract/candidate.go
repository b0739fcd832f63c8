package extract

import "sort"

// CandidateSource records which probe produced a candidate.
type CandidateSource string

const (
	SourceHiddenInput CandidateSource = "hidden_input"
	SourceDOMSelector CandidateSource = "dom_selector"
	SourceJSONLD      CandidateSource = "json_ld"
	SourceJSONBlob    CandidateSource = "json_blob"
	SourceTextPattern CandidateSource = "text_pattern"
)

// Candidate is one plausible price observed on a page. Extractors collect
// candidates from their probe tiers and the site's tie-break rule reduces
// them to at most one.
type Candidate struct {
	Amount        float64
	Currency      string
	Source        CandidateSource
	Locator       string // selector or path that matched
	Strikethrough bool
	Container     string // e.g. "buybox", "pdp"
}

func newCandidate(amount float64, source CandidateSource, locator string) *Candidate {
	return &Candidate{Amount: amount, Currency: "INR", Source: source, Locator: locator}
}

// highest returns the candidate with the largest amount, or nil.
func highest(cands []*Candidate) *Candidate {
	var best *Candidate
	for _, c := range cands {
		if best == nil || c.Amount > best.Amount {
			best = c
		}
	}
	return best
}

// median returns the middle candidate by amount, or nil. Used as a
// last-resort tie-break where the page mixes MRP, selling price and
// bundle offers with no reliable markup difference.
func median(cands []*Candidate) *Candidate {
	if len(cands) == 0 {
		return nil
	}
	sorted := make([]*Candidate, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount < sorted[j].Amount })
	return sorted[len(sorted)/2]
}
