// Package catalog defines the narrow slice of CMS content the sync pipeline
// reads. Only the fields the record transformer consumes are decoded; the rest
// of the raw entry never crosses the adapter boundary.
package catalog

import (
	"strings"
	"time"
)

// Entry is one product entry as delivered by the content source, with linked
// references (category, brand, images) already resolved by the adapter.
// The ID is stable across locales and sync runs and serves as the search
// record's primary key.
type Entry struct {
	ID          string
	ContentType ContentType

	Title       string
	Slug        string
	SKU         string
	Description *RichText

	Price          float64
	CompareAtPrice float64 // 0 means not set

	Images   []Asset
	Category string
	Brand    string

	Colors []string
	Sizes  []string
	Gender string
	Tags   []string

	StockQuantity int
	IsNew         bool
	IsBestseller  bool
	IsSale        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RichText is the block/node document shape the CMS uses for long-form fields.
type RichText struct {
	Content []Block `json:"content"`
}

// Block is one top-level node of a rich-text document (e.g. a paragraph).
type Block struct {
	Content []TextNode `json:"content"`
}

// TextNode is a leaf text node inside a block.
type TextNode struct {
	Value string `json:"value"`
}

// PlainText flattens the document: text nodes within a block are joined by a
// single space, blocks are joined by a single space, and the result is trimmed.
// A nil or empty document yields "", never anything else.
func (r *RichText) PlainText() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(r.Content))
	for _, b := range r.Content {
		parts := make([]string, 0, len(b.Content))
		for _, n := range b.Content {
			parts = append(parts, n.Value)
		}
		blocks = append(blocks, strings.Join(parts, " "))
	}
	return strings.TrimSpace(strings.Join(blocks, " "))
}

// Asset is a linked media file. URL is protocol-relative as delivered by the
// content source ("//images.example.net/...").
type Asset struct {
	URL string
}

// AbsoluteURL resolves the protocol-relative URL to an absolute https URL.
// A missing URL yields "" so the transformer can filter the image out.
func (a Asset) AbsoluteURL() string {
	if a.URL == "" {
		return ""
	}
	if strings.HasPrefix(a.URL, "//") {
		return "https:" + a.URL
	}
	return a.URL
}
