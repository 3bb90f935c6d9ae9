package contentful

import (
	"encoding/json"
	"fmt"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
)

// decodeEntries resolves one page of raw entries against its includes section
// and produces narrow catalog entries. Unresolvable links degrade to empty
// values; they never fail the page.
func decodeEntries(page *entriesResponse) ([]catalog.Entry, error) {
	linkedEntries := make(map[string]json.RawMessage, len(page.Includes.Entries))
	for _, e := range page.Includes.Entries {
		linkedEntries[e.Sys.ID] = e.Fields
	}
	linkedAssets := make(map[string]rawAsset, len(page.Includes.Assets))
	for _, a := range page.Includes.Assets {
		linkedAssets[a.Sys.ID] = a
	}

	out := make([]catalog.Entry, 0, len(page.Items))
	for _, item := range page.Items {
		var f productFields
		if err := json.Unmarshal(item.Fields, &f); err != nil {
			return nil, fmt.Errorf("entry %s: %w", item.Sys.ID, err)
		}

		e := catalog.Entry{
			ID:             item.Sys.ID,
			Title:          f.Title,
			Slug:           f.Slug,
			SKU:            f.SKU,
			Description:    f.Description,
			Price:          f.Price,
			CompareAtPrice: f.CompareAtPrice,
			Category:       resolveRefTitle(linkedEntries, f.Category),
			Brand:          resolveRefName(linkedEntries, f.Brand),
			Colors:         f.Colors,
			Sizes:          f.Sizes,
			Gender:         f.Gender,
			Tags:           f.Tags,
			StockQuantity:  f.StockQuantity,
			IsNew:          f.IsNew,
			IsBestseller:   f.IsBestseller,
			IsSale:         f.IsSale,
			CreatedAt:      item.Sys.CreatedAt,
			UpdatedAt:      item.Sys.UpdatedAt,
		}
		if item.Sys.ContentType != nil {
			e.ContentType = catalog.ContentType(item.Sys.ContentType.Sys.ID)
		}

		for _, l := range f.Images {
			e.Images = append(e.Images, resolveAsset(linkedAssets, l))
		}

		out = append(out, e)
	}
	return out, nil
}

// resolveAsset maps an asset link to its protocol-relative file URL.
// A missing asset or missing file metadata yields an empty URL, which the
// transformer filters out of the image list.
func resolveAsset(assets map[string]rawAsset, l link) catalog.Asset {
	a, ok := assets[l.Sys.ID]
	if !ok || a.Fields.File == nil {
		return catalog.Asset{}
	}
	return catalog.Asset{URL: a.Fields.File.URL}
}

func resolveRefTitle(entries map[string]json.RawMessage, l *link) string {
	f := resolveRef(entries, l)
	return f.Title
}

func resolveRefName(entries map[string]json.RawMessage, l *link) string {
	f := resolveRef(entries, l)
	return f.Name
}

func resolveRef(entries map[string]json.RawMessage, l *link) refFields {
	if l == nil {
		return refFields{}
	}
	raw, ok := entries[l.Sys.ID]
	if !ok {
		return refFields{}
	}
	var f refFields
	_ = json.Unmarshal(raw, &f)
	return f
}
