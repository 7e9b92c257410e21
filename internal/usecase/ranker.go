package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kuinque/korzina/internal/domain"
)

const defaultRankWorkers = 4

// Ranker evaluates every seller in a catalog snapshot and picks the one
// covering the most items at the lowest total price.
type Ranker struct {
	matcher   *MatchingService
	evaluator *SellerEvaluator
	workers   int
	logger    *zap.Logger
}

// NewRanker creates a ranker. workers bounds the number of sellers
// evaluated concurrently; non-positive selects a default of 4.
func NewRanker(matcher *MatchingService, evaluator *SellerEvaluator, workers int, logger *zap.Logger) *Ranker {
	if workers <= 0 {
		workers = defaultRankWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ranker{
		matcher:   matcher,
		evaluator: evaluator,
		workers:   workers,
		logger:    logger,
	}
}

// Rank returns the best seller for items, or ok=false when no seller
// matched a single item. Only an empty list or a cancelled context
// produce an error.
func (r *Ranker) Rank(ctx context.Context, items []string, offers []domain.Offer) (domain.SellerSolution, bool, error) {
	solutions, err := r.EvaluateAll(ctx, items, offers)
	if err != nil {
		return domain.SellerSolution{}, false, err
	}

	ranked := RankSolutions(solutions)
	if len(ranked) == 0 {
		return domain.SellerSolution{}, false, nil
	}

	return ranked[0], true, nil
}

// EvaluateAll evaluates each seller independently and returns one solution
// per seller, in order of the seller's first offer in the snapshot.
func (r *Ranker) EvaluateAll(ctx context.Context, items []string, offers []domain.Offer) ([]domain.SellerSolution, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyShoppingList
	}

	catalogs := r.GroupBySeller(offers)
	solutions := make([]domain.SellerSolution, len(catalogs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range catalogs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			solutions[i] = r.evaluator.Evaluate(items, catalogs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("sellers evaluated",
		zap.Int("sellers", len(catalogs)),
		zap.Int("offers", len(offers)),
		zap.Int("items", len(items)))

	return solutions, nil
}

// GroupBySeller splits a snapshot into per-seller catalogs in order of first
// appearance. Offers without a seller are skipped. Negative prices are
// treated as zero so they cannot pull a total below zero. When an offer id
// repeats within a seller the later row replaces the earlier one.
func (r *Ranker) GroupBySeller(offers []domain.Offer) []SellerCatalog {
	index := make(map[string]int)
	var catalogs []SellerCatalog
	positions := make([]map[string]int, 0)

	for _, offer := range offers {
		if !offer.HasSeller() {
			continue
		}
		if offer.Price < 0 {
			r.logger.Warn("negative offer price treated as zero",
				zap.String("offer_id", offer.ID),
				zap.String("seller", offer.SellerName),
				zap.Float64("price", offer.Price))
			offer.Price = 0
		}

		ci, ok := index[offer.SellerName]
		if !ok {
			ci = len(catalogs)
			index[offer.SellerName] = ci
			catalogs = append(catalogs, SellerCatalog{Name: offer.SellerName})
			positions = append(positions, make(map[string]int))
		}

		candidate := r.matcher.NewCandidate(offer)
		if pos, dup := positions[ci][offer.ID]; dup {
			catalogs[ci].Offers[pos] = offer
			catalogs[ci].Candidates[pos] = candidate
			continue
		}

		positions[ci][offer.ID] = len(catalogs[ci].Offers)
		catalogs[ci].Offers = append(catalogs[ci].Offers, offer)
		catalogs[ci].Candidates = append(catalogs[ci].Candidates, candidate)
	}

	return catalogs
}

// RankSolutions drops sellers with no matched items and orders the rest by
// matched count descending, then total price ascending. The sort is
// stable so fully tied sellers keep their input order.
func RankSolutions(solutions []domain.SellerSolution) []domain.SellerSolution {
	ranked := make([]domain.SellerSolution, 0, len(solutions))
	for _, s := range solutions {
		if s.MatchedCount > 0 {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].MatchedCount != ranked[j].MatchedCount {
			return ranked[i].MatchedCount > ranked[j].MatchedCount
		}
		return ranked[i].TotalPrice < ranked[j].TotalPrice
	})

	return ranked
}
