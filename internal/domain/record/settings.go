package record

// IndexSettings is the declarative search configuration reapplied on every
// sync run so the index schema cannot silently drift from the record shape.
// Applying it twice has the same effect as once.
type IndexSettings struct {
	SearchableAttributes   []string
	AttributesForFaceting  []string
	CustomRanking          []string
	AttributesToHighlight  []string
	AttributesToSnippet    []string
	HitsPerPage            int
	MaxValuesPerFacet      int
	TypoTolerance          bool
	MinWordSizeFor1Typo    int
	MinWordSizeFor2Typos   int
	RemoveWordsIfNoResults string
}

// DefaultIndexSettings mirrors the storefront's product search configuration.
// The ranking list is passed through verbatim; tuning it is a merchandising
// decision, not a pipeline one.
func DefaultIndexSettings() IndexSettings {
	return IndexSettings{
		SearchableAttributes: []string{
			"title",
			"brand",
			"category",
			"tags",
			"description",
			"colors",
		},
		AttributesForFaceting: []string{
			"filterOnly(locale)",
			"searchable(category)",
			"searchable(brand)",
			"colors",
			"sizes",
			"gender",
			"isNew",
			"isSale",
			"isBestseller",
		},
		CustomRanking: []string{
			"desc(isBestseller)",
			"desc(isNew)",
			"desc(popularity)",
			"asc(price)",
		},
		AttributesToHighlight:  []string{"title", "brand", "category"},
		AttributesToSnippet:    []string{"description:20"},
		HitsPerPage:            20,
		MaxValuesPerFacet:      100,
		TypoTolerance:          true,
		MinWordSizeFor1Typo:    4,
		MinWordSizeFor2Typos:   8,
		RemoveWordsIfNoResults: "lastWords",
	}
}
