package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/metrics"
)

// ShopSearchServiceConfig holds configuration for the shop search service
type ShopSearchServiceConfig struct {
	PenaltyPrice          float64
	PartialFullThreshold  float64
	PartialCleanThreshold float64
	StopWords             []string
	Workers               int
}

// ShopSearchService finds the seller that can supply a shopping list most
// completely and most cheaply.
type ShopSearchService struct {
	store  domain.OfferStore
	ranker *Ranker
	logger *zap.Logger
}

// NewShopSearchService creates a new shop search service with dependencies
func NewShopSearchService(
	store domain.OfferStore,
	config ShopSearchServiceConfig,
	logger *zap.Logger,
) *ShopSearchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	// An empty configured list keeps the default stop words
	stopWords := config.StopWords
	if len(stopWords) == 0 {
		stopWords = nil
	}

	matcher := NewMatchingService(NewTextNormalizer(stopWords), MatchConfig{
		PartialFullThreshold:  config.PartialFullThreshold,
		PartialCleanThreshold: config.PartialCleanThreshold,
	}, logger.Named("matcher"))
	evaluator := NewSellerEvaluator(matcher, config.PenaltyPrice, logger.Named("evaluator"))

	return &ShopSearchService{
		store:  store,
		ranker: NewRanker(matcher, evaluator, config.Workers, logger.Named("ranker")),
		logger: logger,
	}
}

// FindCheapestShop loads one catalog snapshot and ranks every seller in it.
// Items are trimmed and blank ones dropped; an empty list is rejected with
// ErrEmptyShoppingList. ok is false when no seller matched any item. Store
// errors are returned as-is.
func (s *ShopSearchService) FindCheapestShop(ctx context.Context, items []string) (domain.SellerSolution, bool, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	items = CleanShoppingList(items)
	if len(items) == 0 {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.SellerSolution{}, false, domain.ErrEmptyShoppingList
	}

	s.logger.Info("starting search", zap.Strings("products", items))

	offers, err := s.store.GetAllOffers(ctx)
	if err != nil {
		metrics.StoreErrorsTotal.Inc()
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("loading offers", zap.Error(err))
		return domain.SellerSolution{}, false, err
	}
	metrics.OffersLoaded.Set(float64(len(offers)))

	solutions, err := s.ranker.EvaluateAll(ctx, items, offers)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return domain.SellerSolution{}, false, err
	}
	metrics.SellersEvaluated.Observe(float64(len(solutions)))

	ranked := RankSolutions(solutions)
	if len(ranked) == 0 {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		s.logger.Warn("no suitable sellers found",
			zap.Int("sellers", len(solutions)),
			zap.Int("offers", len(offers)))
		return domain.SellerSolution{}, false, nil
	}

	best := ranked[0]
	for _, m := range best.Matches {
		metrics.ItemsMatchedTotal.WithLabelValues(string(m.Kind)).Inc()
	}
	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFound).Inc()

	s.logger.Info("best seller found",
		zap.String("seller", best.SellerName),
		zap.Float64("total_price", best.TotalPrice),
		zap.Int("found", best.MatchedCount),
		zap.Int("total", len(items)))

	return best, true, nil
}
