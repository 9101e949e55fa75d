package listing

import (
	"searchkit/internal/database/model"
	"searchkit/pkg/search"
)

// SearchParams is the decoded search request for listings. Values within
// one field are alternatives (set membership); separate fields must all
// hold.
type SearchParams struct {
	Query        string
	Styles       []string
	Prices       []string
	Tags         []string
	ExcludeTags  []string
	Facets       []string
	GlobalFacets []string
	Page         int
	PerPage      int
}

// Response is the search result envelope returned to the API layer.
type Response struct {
	Total    int64                           `json:"total"`
	TookMs   int64                           `json:"took_ms"`
	Listings []model.Listing                 `json:"listings"`
	Facets   map[string][]search.FacetBucket `json:"facets,omitempty"`
}
