package contentful

import (
	"encoding/json"
	"time"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
)

// Raw Delivery API payload shapes. Only what the decoder reads is declared;
// everything else in the payload is ignored.

type entriesResponse struct {
	Total    int        `json:"total"`
	Skip     int        `json:"skip"`
	Limit    int        `json:"limit"`
	Items    []rawEntry `json:"items"`
	Includes includes   `json:"includes"`
}

type includes struct {
	Entries []rawEntry `json:"Entry"`
	Assets  []rawAsset `json:"Asset"`
}

type rawEntry struct {
	Sys    entrySys        `json:"sys"`
	Fields json.RawMessage `json:"fields"`
}

type entrySys struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	ContentType *struct {
		Sys struct {
			ID string `json:"id"`
		} `json:"sys"`
	} `json:"contentType"`
}

type rawAsset struct {
	Sys    entrySys `json:"sys"`
	Fields struct {
		Title string `json:"title"`
		File  *struct {
			URL string `json:"url"` // protocol-relative
		} `json:"file"`
	} `json:"fields"`
}

// link is an unresolved reference inside a field value.
type link struct {
	Sys struct {
		ID       string `json:"id"`
		LinkType string `json:"linkType"` // "Entry" or "Asset"
	} `json:"sys"`
}

// productFields is the narrow slice of product entry fields the transformer
// reads, per the catalog.Entry contract.
type productFields struct {
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	SKU            string            `json:"sku"`
	Description    *catalog.RichText `json:"description"`
	Price          float64           `json:"price"`
	CompareAtPrice float64           `json:"compareAtPrice"`
	Images         []link            `json:"images"`
	Category       *link             `json:"category"`
	Brand          *link             `json:"brand"`
	Colors         []string          `json:"colors"`
	Sizes          []string          `json:"sizes"`
	Gender         string            `json:"gender"`
	Tags           []string          `json:"tags"`
	StockQuantity  int               `json:"stockQuantity"`
	IsNew          bool              `json:"isNew"`
	IsBestseller   bool              `json:"isBestseller"`
	IsSale         bool              `json:"isSale"`
}

// refFields is the slice of a linked entry's fields used for taxonomy names:
// categories carry a title, brands a name.
type refFields struct {
	Title string `json:"title"`
	Name  string `json:"name"`
}
