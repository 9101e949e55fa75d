package search

import (
	"context"

	"github.com/olivere/elastic/v7"
)

// BulkDoc pairs a document with its engine ID for bulk indexing.
type BulkDoc struct {
	ID  string
	Doc interface{}
}

// Index associates a document with an ID in the index resolved for docType.
// On a disabled client this is a warned no-op.
func (c *Client) Index(ctx context.Context, docType, id string, doc interface{}) error {
	if c.cfg.Disabled {
		c.warnDisabled("index:" + docType)
		return nil
	}
	_, err := c.es.Index().
		Index(c.IndexFor(docType)).
		Id(id).
		BodyJson(doc).
		Do(ctx)
	return err
}

// Unindex removes a document from the index resolved for docType. A missing
// document is not an error.
func (c *Client) Unindex(ctx context.Context, docType, id string) error {
	if c.cfg.Disabled {
		c.warnDisabled("unindex:" + docType)
		return nil
	}
	_, err := c.es.Delete().
		Index(c.IndexFor(docType)).
		Id(id).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

// BulkIndex indexes a batch of documents in one request.
func (c *Client) BulkIndex(ctx context.Context, docType string, docs []BulkDoc) error {
	if c.cfg.Disabled || len(docs) == 0 {
		if c.cfg.Disabled {
			c.warnDisabled("bulk:" + docType)
		}
		return nil
	}
	bulk := c.es.Bulk()
	index := c.IndexFor(docType)
	for _, d := range docs {
		bulk.Add(elastic.NewBulkIndexRequest().Index(index).Id(d.ID).Doc(d.Doc))
	}
	_, err := bulk.Do(ctx)
	return err
}

// Refresh makes recent writes visible to search. Mainly useful in tests
// and batch jobs.
func (c *Client) Refresh(ctx context.Context, docType string) error {
	if c.cfg.Disabled {
		return nil
	}
	_, err := c.es.Refresh(c.IndexFor(docType)).Do(ctx)
	return err
}
