package listing

import (
	"context"
	"strconv"

	"searchkit/config"
	"searchkit/internal/database"
	"searchkit/internal/database/model"
	"searchkit/internal/engine"
	"searchkit/pkg/logger"
	"searchkit/pkg/search"
)

const defaultPerPage = 20

// queryFields are the analyzed fields a free-text query matches against.
var queryFields = []string{"name", "style", "tag"}

// buildFilter translates request params into a filter expression. Values
// within a field OR together via set membership, fields AND together, and
// excluded tags are negated.
func buildFilter(p SearchParams) search.F {
	f := search.F{}
	if len(p.Styles) > 0 {
		f = f.And(search.Term("style", p.Styles))
	}
	if len(p.Prices) > 0 {
		f = f.And(search.Term("price", p.Prices))
	}
	if len(p.Tags) > 0 {
		f = f.And(search.Term("tag", p.Tags))
	}
	if len(p.ExcludeTags) > 0 {
		f = f.And(search.Term("tag", p.ExcludeTags).Not())
	}
	return f
}

// buildSpec assembles the full search spec for the params.
func buildSpec(p SearchParams) search.S {
	s := search.New(model.DocTypeListing).
		QueryFields(queryFields...).
		Weight("name", 2)
	if p.Query != "" {
		s = s.QueryText(p.Query)
	}
	if f := buildFilter(p); !f.Empty() {
		s = s.Filter(f)
	}
	if len(p.Facets) > 0 {
		s = s.Facet(p.Facets...)
	}
	if len(p.GlobalFacets) > 0 {
		s = s.FacetGlobal(p.GlobalFacets...)
	}
	perPage := p.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = defaultPerPage
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return s.From((page - 1) * perPage).Limit(perPage)
}

// Search executes the params against the engine and hydrates hits from the
// database, preserving engine ranking. Rows that vanished from MySQL since
// indexing drop out silently; rows the database cannot serve at all fall
// back to the indexed source projection.
func Search(ctx context.Context, p SearchParams) (Response, error) {
	c, err := engine.GetClient()
	if err != nil {
		return Response{}, err
	}

	res, err := c.Do(ctx, buildSpec(p))
	if err != nil {
		logger.Error(err, "%v: search failed", config.ModuleListing)
		return Response{}, err
	}

	out := Response{
		Total:    res.Total,
		TookMs:   res.Took.Milliseconds(),
		Listings: hydrate(ctx, res.Hits),
		Facets:   res.Facets(),
	}
	return out, nil
}

func hydrate(ctx context.Context, hits []search.Hit) []model.Listing {
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		if id, err := strconv.ParseInt(h.ID, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	rows, err := database.GetEntitiesByIDs[model.Listing](ctx, ids)
	if err != nil {
		logger.Error(err, "%v: hydration failed, serving indexed sources", config.ModuleListing)
		return fromSources(hits)
	}

	byID := make(map[int64]model.Listing, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

// fromSources rebuilds listings from the projections stored in the index.
func fromSources(hits []search.Hit) []model.Listing {
	out := make([]model.Listing, 0, len(hits))
	for _, h := range hits {
		l := model.Listing{}
		if id, err := strconv.ParseInt(h.ID, 10, 64); err == nil {
			l.ID = id
		}
		l.Name, _ = h.Source["name"].(string)
		l.Style, _ = h.Source["style"].(string)
		l.Price, _ = h.Source["price"].(string)
		l.Tag, _ = h.Source["tag"].(string)
		out = append(out, l)
	}
	return out
}

// Create persists a listing; the model's save hook indexes it.
func Create(ctx context.Context, l *model.Listing) error {
	return database.CreateEntity(ctx, l)
}

// Delete removes a listing; the model's delete hook unindexes it.
func Delete(ctx context.Context, id int64) error {
	row, err := database.GetEntityByID[model.Listing](ctx, id)
	if err != nil {
		return err
	}
	return database.DeleteEntity(ctx, row)
}

// Reindex pushes every stored listing back into the engine in one bulk
// request, for rebuilding a fresh index.
func Reindex(ctx context.Context) (int, error) {
	c, err := engine.GetClient()
	if err != nil {
		return 0, err
	}
	db, err := database.GetDB()
	if err != nil {
		return 0, err
	}
	var rows []model.Listing
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return 0, err
	}
	docs := make([]search.BulkDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, search.BulkDoc{ID: rows[i].SearchID(), Doc: rows[i].SearchDoc()})
	}
	if err := c.BulkIndex(ctx, model.DocTypeListing, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
