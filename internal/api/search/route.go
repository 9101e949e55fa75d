package search

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/api")

	grp.Get("/search", HandleSearch)
	grp.Post("/listings", HandleCreateListing)
	grp.Delete("/listings/:id", HandleDeleteListing)
	grp.Post("/reindex", HandleReindex)
}
