package usecase

import (
	"context"
	"sort"

	"github.com/kuinque/korzina/internal/domain"
)

// MockOfferStore is a mock implementation of domain.OfferStore
type MockOfferStore struct {
	offers   []domain.Offer
	err      error
	pingErr  error
	getCalls int
}

func NewMockOfferStore(offers ...domain.Offer) *MockOfferStore {
	return &MockOfferStore{offers: offers}
}

func (m *MockOfferStore) GetAllOffers(ctx context.Context) ([]domain.Offer, error) {
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.offers, nil
}

func (m *MockOfferStore) GetOffersBySeller(ctx context.Context, sellerName string) ([]domain.Offer, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Offer
	for _, o := range m.offers {
		if o.SellerName == sellerName {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOfferStore) ListSellers(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[string]bool)
	var sellers []string
	for _, o := range m.offers {
		if o.SellerName != "" && !seen[o.SellerName] {
			seen[o.SellerName] = true
			sellers = append(sellers, o.SellerName)
		}
	}
	sort.Strings(sellers)
	return sellers, nil
}

func (m *MockOfferStore) Ping(ctx context.Context) error {
	return m.pingErr
}

func offer(id, title string, price float64, seller string) domain.Offer {
	return domain.Offer{ID: id, Title: title, Price: price, SellerName: seller}
}
