// Package record holds the flattened search record, its pure transformer, and
// the declarative index configuration.
package record

// Record is the locale-scoped search projection of one catalog entry.
// ObjectID is the entry's CMS ID, unsuffixed: each locale has its own index,
// so there is no collision across locales.
//
// Optional list fields are always non-nil and flags always present; the
// index's faceting configuration assumes every declared field exists in some
// form.
type Record struct {
	ObjectID           string   `json:"objectID"`
	Title              string   `json:"title"`
	Slug               string   `json:"slug"`
	SKU                string   `json:"sku"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	CompareAtPrice     *float64 `json:"compareAtPrice,omitempty"`
	DiscountPercentage *int     `json:"discountPercentage,omitempty"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Colors             []string `json:"colors"`
	Sizes              []string `json:"sizes"`
	Gender             string   `json:"gender"`
	ImageURL           string   `json:"imageUrl"`
	Images             []string `json:"images"`
	IsNew              bool     `json:"isNew"`
	IsSale             bool     `json:"isSale"`
	IsBestseller       bool     `json:"isBestseller"`
	Tags               []string `json:"tags"`
	StockQuantity      int      `json:"stockQuantity"`
	Locale             string   `json:"locale"`
	Popularity         int      `json:"popularity"`
	CreatedAt          int64    `json:"createdAt"`
	UpdatedAt          int64    `json:"updatedAt"`
}
