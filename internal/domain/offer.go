package domain

// Offer is one seller's priced listing as written by the ingestion scraper.
// Offers are read-only inside the matching core.
type Offer struct {
	ID           string   `json:"offer_id"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	SellerName   string   `json:"seller_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
	Images       []string `json:"images,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// HasSeller reports whether the offer can be attributed to a seller.
func (o Offer) HasSeller() bool {
	return o.SellerName != ""
}

// OfferQuery filters and paginates catalog browsing.
type OfferQuery struct {
	Seller   string
	Category string
	Query    string
	Limit    int
	Offset   int
}

// OfferPage is one page of filtered offers.
type OfferPage struct {
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Count  int     `json:"count"`
	Offers []Offer `json:"offers"`
}

// CatalogStats summarizes what the store currently holds.
type CatalogStats struct {
	SellersCount int      `json:"shops_count"`
	OffersCount  int      `json:"products_count"`
	Sellers      []string `json:"shops"`
}
