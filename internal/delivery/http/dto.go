package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/usecase"
)

// notFoundLabel is shown in place of an offer title for unmatched items
const notFoundLabel = "НЕ НАЙДЕН"

// ProductList accepts either a JSON array of names or one comma-separated
// string. Items are trimmed and blank ones dropped.
type ProductList []string

// UnmarshalJSON implements json.Unmarshaler
func (p *ProductList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = usecase.ParseShoppingList(s)
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				// Numbers and other scalars are taken verbatim
				s = string(bytes.TrimSpace(r))
			}
			items = append(items, s)
		}
		*p = usecase.CleanShoppingList(items)
		return nil
	}

	return fmt.Errorf("%w: products must be either a string or a list", domain.ErrInvalidRequest)
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Products ProductList `json:"products" binding:"required"`
}

// ShopRef identifies a seller in responses
type ShopRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductMatchResponse describes how one list item was matched
type ProductMatchResponse struct {
	Target     string  `json:"target"`
	Found      string  `json:"found"`
	Price      float64 `json:"price"`
	Similarity float64 `json:"similarity"`
	MatchType  string  `json:"match_type"`
}

// SearchResponse is the body of a successful search
type SearchResponse struct {
	Status          string                 `json:"status"`
	BestShop        interface{}            `json:"best_shop"`
	TotalPrice      float64                `json:"total_price"`
	ProductsFound   int                    `json:"products_found"`
	ProductsTotal   int                    `json:"products_total"`
	MatchPercentage float64                `json:"match_percentage"`
	Products        []ProductMatchResponse `json:"products"`
}

// SellerOfferResponse is one row of GET /api/products
type SellerOfferResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images"`
}

// offersQuery binds GET /api/offers parameters
type offersQuery struct {
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
	Seller   string `form:"seller"`
	Category string `form:"category"`
	Q        string `form:"q"`
}

// productsQuery binds GET /api/products parameters
type productsQuery struct {
	Shop string `form:"shop" binding:"required"`
	Q    string `form:"q"`
}

// searchGetQuery binds GET /api/search/get parameters
type searchGetQuery struct {
	Products string `form:"products" binding:"required"`
	Debug    int    `form:"debug,default=0" binding:"oneof=0 1"`
}

func newSearchResponse(solution domain.SellerSolution, bestShop interface{}, total int) SearchResponse {
	products := make([]ProductMatchResponse, 0, len(solution.Matches))
	for _, m := range solution.Matches {
		found := notFoundLabel
		if m.Found() {
			found = m.Offer.Title
		}
		products = append(products, ProductMatchResponse{
			Target:     m.Target,
			Found:      found,
			Price:      m.Price,
			Similarity: m.Similarity,
			MatchType:  string(m.Kind),
		})
	}

	return SearchResponse{
		Status:          "success",
		BestShop:        bestShop,
		TotalPrice:      solution.TotalPrice,
		ProductsFound:   solution.MatchedCount,
		ProductsTotal:   total,
		MatchPercentage: solution.MatchPercentage,
		Products:        products,
	}
}

func newSellerOfferResponses(offers []domain.Offer) []SellerOfferResponse {
	out := make([]SellerOfferResponse, 0, len(offers))
	for _, o := range offers {
		images := o.Images
		if images == nil {
			images = []string{}
		}
		out = append(out, SellerOfferResponse{
			ID:          o.ID,
			Name:        o.Title,
			Price:       o.Price,
			Description: o.Description,
			Category:    o.CategoryName,
			Images:      images,
		})
	}
	return out
}

func errorBody(message string) gin.H {
	return gin.H{
		"status": "error",
		"error":  message,
	}
}
