package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/kuinque/korzina/internal/domain"
)

const offerColumns = `offer_id::text, title, price, seller_name, description,
	currency, category_name, images, tags`

// Config holds connection pool settings
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// OfferStore reads offers straight from the offers table
type OfferStore struct {
	db *sql.DB
}

// Open connects to PostgreSQL and returns a store owning the pool
func Open(cfg Config) (*OfferStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewOfferStore(db), nil
}

// NewOfferStore wraps an existing pool
func NewOfferStore(db *sql.DB) *OfferStore {
	return &OfferStore{db: db}
}

// GetAllOffers loads every offer in insertion order
func (s *OfferStore) GetAllOffers(ctx context.Context) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY offer_id`
	return s.queryOffers(ctx, query)
}

// GetOffersBySeller loads the offers of one seller
func (s *OfferStore) GetOffersBySeller(ctx context.Context, sellerName string) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE seller_name = $1 ORDER BY offer_id`
	return s.queryOffers(ctx, query, sellerName)
}

// ListSellers returns distinct non-empty seller names, sorted
func (s *OfferStore) ListSellers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT seller_name FROM offers
		 WHERE seller_name IS NOT NULL AND seller_name <> ''
		 ORDER BY seller_name`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sellers: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	sellers := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scanning seller: %v", domain.ErrStoreUnavailable, err)
		}
		sellers = append(sellers, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return sellers, nil
}

// Ping tests the database connection
func (s *OfferStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the database connection
func (s *OfferStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *OfferStore) queryOffers(ctx context.Context, query string, args ...interface{}) ([]domain.Offer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying offers: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning offer: %v", domain.ErrStoreUnavailable, err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return offers, nil
}

// scanOffer reads one row. NULL text columns become "", a NULL or negative
// price becomes 0.
func scanOffer(rows *sql.Rows) (domain.Offer, error) {
	var (
		id, title, seller, description sql.NullString
		currency, category             sql.NullString
		price                          sql.NullFloat64
		images, tags                   pq.StringArray
	)

	err := rows.Scan(&id, &title, &price, &seller, &description,
		&currency, &category, &images, &tags)
	if err != nil {
		return domain.Offer{}, err
	}

	offer := domain.Offer{
		ID:           id.String,
		Title:        title.String,
		SellerName:   seller.String,
		Description:  description.String,
		Currency:     currency.String,
		CategoryName: category.String,
	}
	if price.Valid && price.Float64 > 0 {
		offer.Price = price.Float64
	}
	if len(images) > 0 {
		offer.Images = []string(images)
	}
	if len(tags) > 0 {
		offer.Tags = []string(tags)
	}

	return offer, nil
}
