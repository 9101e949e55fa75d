package model

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"searchkit/config"
	"searchkit/internal/engine"
	"searchkit/pkg/logger"
)

// DocTypeListing is the doc type listings index under; the engine client's
// index mapping resolves it to a concrete index name.
const DocTypeListing = "listing"

// Listing is the document of record. The search engine carries a projection
// of it (SearchDoc); MySQL stays authoritative.
type Listing struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Name      string     `json:"name"`
	Style     string     `json:"style"`
	Price     string     `json:"price"`
	Tag       string     `json:"tag"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (Listing) TableName() string { return "listings" }

// SearchDoc returns the projection of the row that gets indexed.
func (l *Listing) SearchDoc() map[string]interface{} {
	return map[string]interface{}{
		"id":    l.ID,
		"name":  l.Name,
		"style": l.Style,
		"price": l.Price,
		"tag":   l.Tag,
	}
}

// SearchID is the engine document ID for the row.
func (l *Listing) SearchID() string { return strconv.FormatInt(l.ID, 10) }

// AfterSave keeps the engine in step with every create or update. Index
// failures are logged, not surfaced: the row is committed and the index can
// be rebuilt, so a flaky engine must not fail writes.
func (l *Listing) AfterSave(tx *gorm.DB) error {
	c, err := engine.GetClient()
	if err != nil {
		return nil
	}
	if err := c.Index(tx.Statement.Context, DocTypeListing, l.SearchID(), l.SearchDoc()); err != nil {
		logger.Error(err, "%v: failed to index listing %d", config.ModuleListing, l.ID)
	}
	return nil
}

// AfterDelete removes the row from the engine.
func (l *Listing) AfterDelete(tx *gorm.DB) error {
	c, err := engine.GetClient()
	if err != nil {
		return nil
	}
	if err := c.Unindex(tx.Statement.Context, DocTypeListing, l.SearchID()); err != nil {
		logger.Error(err, "%v: failed to unindex listing %d", config.ModuleListing, l.ID)
	}
	return nil
}
