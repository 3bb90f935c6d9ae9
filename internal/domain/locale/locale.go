// Package locale models the fixed pair of storefront locales and the
// locale-scoped search index naming convention.
package locale

// Locale maps a short public locale code to the content source's internal
// locale identifier.
type Locale struct {
	Code string // public code used in URLs and index names, e.g. "en"
	CMS  string // content source identifier, e.g. "en-US"
}

// DefaultPair returns the supported locales: primary English, secondary
// Turkish. The order is the sync order.
func DefaultPair() []Locale {
	return []Locale{
		{Code: "en", CMS: "en-US"},
		{Code: "tr", CMS: "tr-TR"},
	}
}

// IndexName returns the deterministic name of the locale-scoped search index.
func IndexName(prefix, code string) string {
	return prefix + "_" + code
}
