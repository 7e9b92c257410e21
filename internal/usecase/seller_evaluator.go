package usecase

import (
	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
)

// DefaultPenaltyPrice is charged for every shopping list item a seller cannot supply
const DefaultPenaltyPrice = 1000.0

// SellerCatalog is one seller's offers prepared for matching.
// Offers and Candidates are parallel slices in store order.
type SellerCatalog struct {
	Name       string
	Offers     []domain.Offer
	Candidates []Candidate
}

// SellerEvaluator scores a single seller against a shopping list
type SellerEvaluator struct {
	matcher      *MatchingService
	penaltyPrice float64
	logger       *zap.Logger
}

// NewSellerEvaluator creates an evaluator. A non-positive penaltyPrice
// selects DefaultPenaltyPrice.
func NewSellerEvaluator(matcher *MatchingService, penaltyPrice float64, logger *zap.Logger) *SellerEvaluator {
	if penaltyPrice <= 0 {
		penaltyPrice = DefaultPenaltyPrice
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SellerEvaluator{
		matcher:      matcher,
		penaltyPrice: penaltyPrice,
		logger:       logger,
	}
}

// PenaltyPrice returns the price charged for an unmatched item.
func (e *SellerEvaluator) PenaltyPrice() float64 {
	return e.penaltyPrice
}

// Evaluate matches every item against the seller's not yet consumed offers,
// in list order. A matched offer is consumed and cannot serve a later item;
// an unmatched item costs the penalty price.
func (e *SellerEvaluator) Evaluate(items []string, catalog SellerCatalog) domain.SellerSolution {
	consumed := make(map[string]struct{}, len(items))
	matches := make([]domain.MatchResult, 0, len(items))
	total := 0.0
	matched := 0

	for _, item := range items {
		m := e.matcher.FindBestMatch(item, catalog.Candidates, consumed)
		if !m.Found() {
			total += e.penaltyPrice
			matches = append(matches, domain.MatchResult{
				Target:     item,
				Similarity: 0,
				Kind:       domain.MatchNone,
				Price:      e.penaltyPrice,
			})
			continue
		}

		offer := catalog.Offers[m.Index]
		total += offer.Price
		matched++
		consumed[m.CandidateID] = struct{}{}
		matches = append(matches, domain.MatchResult{
			Target:     item,
			Offer:      &offer,
			Similarity: m.Similarity,
			Kind:       m.Kind,
			Price:      offer.Price,
		})
	}

	percentage := 0.0
	if len(items) > 0 {
		percentage = float64(matched) / float64(len(items))
	}

	e.logger.Debug("seller evaluated",
		zap.String("seller", catalog.Name),
		zap.Int("matched", matched),
		zap.Int("items", len(items)),
		zap.Float64("total_price", total))

	return domain.SellerSolution{
		SellerID:        catalog.Name,
		SellerName:      catalog.Name,
		Matches:         matches,
		TotalPrice:      total,
		MatchedCount:    matched,
		MatchPercentage: percentage,
	}
}
