package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
)

// Catalog browsing limits
const (
	DefaultOfferLimit = 20
	MaxOfferLimit     = 100
	statsSellerLimit  = 10
)

// CatalogService exposes read-only views of the offer store
type CatalogService struct {
	store  domain.OfferStore
	logger *zap.Logger
}

// NewCatalogService creates a catalog service backed by store
func NewCatalogService(store domain.OfferStore, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: store, logger: logger}
}

// Stats reports seller and offer counts plus the first sellers by name.
func (s *CatalogService) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	sellers, err := s.store.ListSellers(ctx)
	if err != nil {
		return nil, err
	}

	offers, err := s.store.GetAllOffers(ctx)
	if err != nil {
		return nil, err
	}

	top := sellers
	if len(top) > statsSellerLimit {
		top = top[:statsSellerLimit]
	}

	return &domain.CatalogStats{
		SellersCount: len(sellers),
		OffersCount:  len(offers),
		Sellers:      top,
	}, nil
}

// ListOffers filters the catalog by seller, category and a case-insensitive
// title substring, then paginates.
func (s *CatalogService) ListOffers(ctx context.Context, query domain.OfferQuery) (*domain.OfferPage, error) {
	if query.Limit == 0 {
		query.Limit = DefaultOfferLimit
	}
	if query.Limit < 1 || query.Limit > MaxOfferLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidRequest, MaxOfferLimit)
	}
	if query.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidRequest)
	}

	offers, err := s.store.GetAllOffers(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query.Query)
	filtered := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		if query.Seller != "" && offer.SellerName != query.Seller {
			continue
		}
		if query.Category != "" && offer.CategoryName != query.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(offer.Title), needle) {
			continue
		}
		filtered = append(filtered, offer)
	}

	page := []domain.Offer{}
	if query.Offset < len(filtered) {
		end := min(query.Offset+query.Limit, len(filtered))
		page = filtered[query.Offset:end]
	}

	return &domain.OfferPage{
		Total:  len(filtered),
		Limit:  query.Limit,
		Offset: query.Offset,
		Count:  len(page),
		Offers: page,
	}, nil
}

// SellerProducts returns a seller's offers, optionally narrowed to titles
// containing q. ErrSellerNotFound is returned when the seller has no offers.
func (s *CatalogService) SellerProducts(ctx context.Context, seller, q string) ([]domain.Offer, error) {
	seller = strings.TrimSpace(seller)
	if seller == "" {
		return nil, fmt.Errorf("%w: missing shop", domain.ErrInvalidRequest)
	}

	offers, err := s.store.GetOffersBySeller(ctx, seller)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSellerNotFound, seller)
	}

	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return offers, nil
	}

	filtered := make([]domain.Offer, 0, len(offers))
	for _, offer := range offers {
		if strings.Contains(strings.ToLower(offer.Title), needle) {
			filtered = append(filtered, offer)
		}
	}

	s.logger.Debug("seller products",
		zap.String("seller", seller),
		zap.String("q", q),
		zap.Int("count", len(filtered)))

	return filtered, nil
}

// Ping checks that the offer store is reachable.
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
