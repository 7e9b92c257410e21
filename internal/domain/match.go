package domain

// MatchKind classifies how a shopping list item was matched to an offer.
type MatchKind string

// Match kinds in descending priority.
const (
	MatchExactFull    MatchKind = "exact_full"
	MatchPartialFull  MatchKind = "partial_full"
	MatchExactClean   MatchKind = "exact_clean"
	MatchPartialClean MatchKind = "partial_clean"
	MatchNone         MatchKind = "none"
)

// Priority returns the tier weight used when comparing candidates.
// MatchNone and unknown kinds have priority 0.
func (k MatchKind) Priority() int {
	switch k {
	case MatchExactFull:
		return 4
	case MatchPartialFull:
		return 3
	case MatchExactClean:
		return 2
	case MatchPartialClean:
		return 1
	default:
		return 0
	}
}

// MatchResult is the outcome of matching one shopping list item within a
// single seller's catalog.
type MatchResult struct {
	Target     string    `json:"target"`
	Offer      *Offer    `json:"offer,omitempty"`
	Similarity float64   `json:"similarity"`
	Kind       MatchKind `json:"match_type"`
	Price      float64   `json:"price"`
}

// Found reports whether an offer was matched.
func (r MatchResult) Found() bool {
	return r.Offer != nil && r.Kind != MatchNone
}

// SellerSolution is the evaluation of one seller against a shopping list.
// Matches is parallel to the shopping list.
type SellerSolution struct {
	SellerID        string        `json:"shop_id"`
	SellerName      string        `json:"shop_name"`
	Matches         []MatchResult `json:"found_products"`
	TotalPrice      float64       `json:"total_price"`
	MatchedCount    int           `json:"products_found_count"`
	MatchPercentage float64       `json:"match_percentage"`
}
