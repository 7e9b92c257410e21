package usecase

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
)

// Default similarity thresholds for the partial tiers
const (
	defaultPartialFullThreshold  = 0.6
	defaultPartialCleanThreshold = 0.6
)

// Fixed similarities for the exact tiers
const (
	exactFullSimilarity  = 1.0
	exactCleanSimilarity = 0.9
)

// Combined score weights. Tier priority is multiplied by tierWeight so that
// similarity plus the price bonus can never lift a candidate over a higher
// tier.
const (
	tierWeight        = 10.0
	priceBonusFactor  = 0.1
	priceBonusEpsilon = 0.1
)

// Candidate is one offer prepared for matching
type Candidate struct {
	ID             string
	Name           string
	NormalizedName string
	Price          float64
}

// Match is the outcome of FindBestMatch. Index is -1 when nothing matched.
type Match struct {
	CandidateID string
	Index       int
	Similarity  float64
	Kind        domain.MatchKind
}

// Found reports whether a candidate qualified for any tier.
func (m Match) Found() bool {
	return m.Kind != domain.MatchNone
}

var noMatch = Match{Index: -1, Kind: domain.MatchNone}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	PartialFullThreshold  float64
	PartialCleanThreshold float64
}

// MatchingService picks the best offer for a free-text shopping list item
// using tiered exact/partial matching on raw and stop-word-free names.
type MatchingService struct {
	normalizer            *TextNormalizer
	partialFullThreshold  float64
	partialCleanThreshold float64
	logger                *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(normalizer *TextNormalizer, config MatchConfig, logger *zap.Logger) *MatchingService {
	if normalizer == nil {
		normalizer = NewTextNormalizer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	partialFull := config.PartialFullThreshold
	if partialFull <= 0 {
		partialFull = defaultPartialFullThreshold
	}

	partialClean := config.PartialCleanThreshold
	if partialClean <= 0 {
		partialClean = defaultPartialCleanThreshold
	}

	return &MatchingService{
		normalizer:            normalizer,
		partialFullThreshold:  partialFull,
		partialCleanThreshold: partialClean,
		logger:                logger,
	}
}

// NewCandidate prepares an offer for matching, computing its normalized name.
func (s *MatchingService) NewCandidate(offer domain.Offer) Candidate {
	return Candidate{
		ID:             offer.ID,
		Name:           offer.Title,
		NormalizedName: s.normalizer.Normalize(offer.Title),
		Price:          offer.Price,
	}
}

// FindBestMatch returns the best candidate for target among those not in
// excluded. Candidates are classified into the highest tier they qualify
// for and compared by tier*10 + similarity + 0.1/(price+0.1); on equal
// scores the earlier candidate wins. The returned similarity is the tier
// similarity, never the combined score.
func (s *MatchingService) FindBestMatch(
	target string,
	candidates []Candidate,
	excluded map[string]struct{},
) Match {
	targetFull := strings.ToLower(target)
	targetClean := s.normalizer.Normalize(target)

	best := noMatch
	bestScore := 0.0

	for i, candidate := range candidates {
		if _, used := excluded[candidate.ID]; used {
			continue
		}

		kind, similarity := s.classify(targetFull, targetClean, candidate)
		if kind == domain.MatchNone {
			continue
		}

		score := combinedScore(kind, similarity, candidate.Price)
		if best.Index < 0 || score > bestScore {
			best = Match{
				CandidateID: candidate.ID,
				Index:       i,
				Similarity:  similarity,
				Kind:        kind,
			}
			bestScore = score
		}
	}

	if best.Found() {
		s.logger.Debug("best match",
			zap.String("target", target),
			zap.String("offer", candidates[best.Index].Name),
			zap.String("kind", string(best.Kind)),
			zap.Float64("similarity", best.Similarity))
	} else {
		s.logger.Debug("no match", zap.String("target", target))
	}

	return best
}

// classify returns the highest tier candidate qualifies for. targetFull is
// the lower-cased target, targetClean its normalized form.
func (s *MatchingService) classify(targetFull, targetClean string, candidate Candidate) (domain.MatchKind, float64) {
	nameFull := strings.ToLower(candidate.Name)
	if targetFull == "" || nameFull == "" {
		return domain.MatchNone, 0
	}

	if targetFull == nameFull {
		return domain.MatchExactFull, exactFullSimilarity
	}

	if containsEither(targetFull, nameFull) {
		if ratio := SimilarityRatio(targetFull, nameFull); ratio >= s.partialFullThreshold {
			return domain.MatchPartialFull, ratio
		}
	}

	nameClean := strings.ToLower(candidate.NormalizedName)
	if targetClean == "" || nameClean == "" {
		return domain.MatchNone, 0
	}

	if targetClean == nameClean {
		return domain.MatchExactClean, exactCleanSimilarity
	}

	if containsEither(targetClean, nameClean) {
		if ratio := SimilarityRatio(targetClean, nameClean); ratio >= s.partialCleanThreshold {
			return domain.MatchPartialClean, ratio
		}
	}

	return domain.MatchNone, 0
}

// containsEither reports whether either non-empty string contains the other
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// combinedScore ranks qualifying candidates. Prices are expected to be
// non-negative; cheaper offers get a bonus of at most 1.
func combinedScore(kind domain.MatchKind, similarity, price float64) float64 {
	if price < 0 {
		price = 0
	}
	priceBonus := priceBonusFactor / (price + priceBonusEpsilon)
	return float64(kind.Priority())*tierWeight + similarity + priceBonus
}
