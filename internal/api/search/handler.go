package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"searchkit/config"
	"searchkit/internal/core/listing"
	"searchkit/internal/database/model"
	"searchkit/pkg/apperror"
	"searchkit/pkg/apperror/status"

	"github.com/gofiber/fiber/v3"
)

// HandleSearch serves listing search. When search is disabled by
// configuration it answers 501 without touching the engine; engine failures
// surface as 503.
func HandleSearch(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	if config.Cfg.Search.Disabled {
		return apperror.NotImplemented(config.ModuleSearch, c, "search is disabled")
	}

	p := listing.SearchParams{
		Query:        strings.TrimSpace(c.Query("q")),
		Styles:       csv(c.Query("styles")),
		Prices:       csv(c.Query("prices")),
		Tags:         csv(c.Query("tags")),
		ExcludeTags:  csv(c.Query("exclude_tags")),
		Facets:       csv(c.Query("facets")),
		GlobalFacets: csv(c.Query("global_facets")),
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 && v <= 100 {
		p.PerPage = v
	}

	searchCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := listing.Search(searchCtx, p)
	if err != nil {
		return apperror.ServiceUnavailable(config.ModuleSearch, c, err)
	}

	return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "search ok",
		TrackingID: trackingID,
		Data:       res,
	})
}

type createListingRequest struct {
	Name  string `json:"name"`
	Style string `json:"style"`
	Price string `json:"price"`
	Tag   string `json:"tag"`
}

// HandleCreateListing stores a listing; the model hook indexes it.
func HandleCreateListing(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req createListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleListing, c, status.SearchInvalidRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperror.BadRequest(config.ModuleListing, c, status.SearchMissingParams, "name is required")
	}

	row := model.Listing{
		Name:  req.Name,
		Style: req.Style,
		Price: req.Price,
		Tag:   req.Tag,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := listing.Create(ctx, &row); err != nil {
		return apperror.InternalError(config.ModuleListing, c, err)
	}

	return apperror.Success(config.ModuleListing, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "listing created",
		TrackingID: trackingID,
		Data:       row,
	})
}

// HandleDeleteListing removes a listing; the model hook unindexes it.
func HandleDeleteListing(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperror.BadRequest(config.ModuleListing, c, status.SearchInvalidRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := listing.Delete(ctx, id); err != nil {
		return apperror.InternalError(config.ModuleListing, c, err)
	}

	return apperror.Success(config.ModuleListing, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "listing deleted",
		TrackingID: trackingID,
	})
}

// HandleReindex rebuilds the engine index from the database.
func HandleReindex(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	if config.Cfg.Search.Disabled {
		return apperror.NotImplemented(config.ModuleSearch, c, "search is disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	n, err := listing.Reindex(ctx)
	if err != nil {
		return apperror.ServiceUnavailable(config.ModuleSearch, c, err)
	}

	return apperror.Success(config.ModuleSearch, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "reindex ok",
		TrackingID: trackingID,
		Data:       fiber.Map{"indexed": n},
	})
}

func csv(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
