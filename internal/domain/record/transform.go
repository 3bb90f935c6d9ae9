package record

import (
	"math"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
)

// Popularity score components. The score biases default ranking toward
// merchandising priorities; bonuses are additive and independent.
const (
	popularityBase       = 50
	popularityBestseller = 30
	popularityNew        = 20
	popularitySale       = 10
)

// FromEntry maps one catalog entry to its search record for the given locale.
// Pure function: identical input yields byte-identical output, which is why
// timestamps come from the entry's CMS metadata rather than the wall clock.
func FromEntry(e catalog.Entry, localeCode string) Record {
	r := Record{
		ObjectID:      e.ID,
		Title:         e.Title,
		Slug:          e.Slug,
		SKU:           e.SKU,
		Description:   e.Description.PlainText(),
		Price:         e.Price,
		Category:      e.Category,
		Brand:         e.Brand,
		Colors:        orEmpty(e.Colors),
		Sizes:         orEmpty(e.Sizes),
		Gender:        e.Gender,
		IsNew:         e.IsNew,
		IsSale:        e.IsSale,
		IsBestseller:  e.IsBestseller,
		Tags:          orEmpty(e.Tags),
		StockQuantity: e.StockQuantity,
		Locale:        localeCode,
		Popularity:    popularity(e),
		CreatedAt:     e.CreatedAt.UnixMilli(),
		UpdatedAt:     e.UpdatedAt.UnixMilli(),
	}

	// Unresolvable assets become empty strings and are dropped, not kept as
	// holes in the list.
	images := make([]string, 0, len(e.Images))
	for _, a := range e.Images {
		if u := a.AbsoluteURL(); u != "" {
			images = append(images, u)
		}
	}
	r.Images = images
	if len(images) > 0 {
		r.ImageURL = images[0]
	}

	if e.CompareAtPrice > 0 {
		compareAt := e.CompareAtPrice
		r.CompareAtPrice = &compareAt
		// Discount only when both prices are set; otherwise the field is
		// omitted entirely rather than written as zero.
		if e.Price > 0 {
			pct := int(math.Round((compareAt - e.Price) / compareAt * 100))
			r.DiscountPercentage = &pct
		}
	}

	return r
}

func popularity(e catalog.Entry) int {
	score := popularityBase
	if e.IsBestseller {
		score += popularityBestseller
	}
	if e.IsNew {
		score += popularityNew
	}
	if e.IsSale {
		score += popularitySale
	}
	return score
}

// orEmpty normalizes absent lists so the record never serializes null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
