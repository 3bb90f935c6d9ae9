package catalog

// ContentType is the content-type tag the CMS attaches to every entry.
type ContentType string

// Recognized content types.
const (
	TypeProduct  ContentType = "product"
	TypeCategory ContentType = "category"
	TypeBrand    ContentType = "brand"
	TypePage     ContentType = "page"
)

// syncTriggering lists the content types whose changes require a search
// re-sync. Widening the trigger set is a one-line registration here.
var syncTriggering = map[ContentType]bool{
	TypeProduct: true,
}

// TriggersSearchSync reports whether a change to an entry of the given
// content type must trigger a catalog sync.
func TriggersSearchSync(ct ContentType) bool {
	return syncTriggering[ct]
}
