package supabase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kuinque/korzina/internal/domain"
)

// offerRow is one row of the offers table as PostgREST returns it. Scraped
// rows are loosely typed: ids may be numeric, prices may be strings or null.
type offerRow struct {
	OfferID      json.RawMessage `json:"offer_id"`
	Title        *string         `json:"title"`
	Price        json.RawMessage `json:"price"`
	SellerName   *string         `json:"seller_name"`
	Description  *string         `json:"description"`
	Currency     *string         `json:"currency"`
	CategoryName *string         `json:"category_name"`
	Images       []string        `json:"images"`
	Tags         []string        `json:"tags"`
}

func mapOffers(rows []offerRow) []domain.Offer {
	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, mapOffer(row))
	}
	return offers
}

func mapOffer(row offerRow) domain.Offer {
	return domain.Offer{
		ID:           rawString(row.OfferID),
		Title:        deref(row.Title),
		Price:        rawPrice(row.Price),
		SellerName:   deref(row.SellerName),
		Description:  deref(row.Description),
		Currency:     deref(row.Currency),
		CategoryName: deref(row.CategoryName),
		Images:       row.Images,
		Tags:         row.Tags,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rawString renders a JSON string or number as text; null becomes ""
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// rawPrice accepts a JSON number or numeric string. Missing, null,
// unparseable and negative prices read as 0.
func rawPrice(raw json.RawMessage) float64 {
	text := rawString(raw)
	if text == "" {
		return 0
	}
	price, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}
