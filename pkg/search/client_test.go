package search

import (
	"context"
	"testing"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Disabled: true,
		Indexes:  map[string]string{"default": "stuff", "listing": "listings"},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresDefaultIndex(t *testing.T) {
	_, err := NewClient(Config{
		Disabled: true,
		Indexes:  map[string]string{"listing": "listings"},
	})
	if err == nil {
		t.Fatalf("index mapping without a default entry must be rejected")
	}
}

func TestIndexForFallsBackToDefault(t *testing.T) {
	c := disabledClient(t)

	if got := c.IndexFor("listing"); got != "listings" {
		t.Fatalf("mapped doc type resolved to %q", got)
	}
	if got := c.IndexFor("unknown"); got != "stuff" {
		t.Fatalf("unmapped doc type should fall back to default, got %q", got)
	}
}

func TestDisabledClientReturnsEmptyResults(t *testing.T) {
	c := disabledClient(t)
	ctx := context.Background()

	res, err := c.Do(ctx, New("listing").QueryText("car"))
	if err != nil {
		t.Fatalf("Do on a disabled client: %v", err)
	}
	if res.Total != 0 || len(res.Hits) != 0 {
		t.Fatalf("disabled client must return empty results, got %+v", res)
	}

	n, err := c.Count(ctx, New("listing"))
	if err != nil || n != 0 {
		t.Fatalf("Count = %d, %v; want 0, nil", n, err)
	}
}

func TestDisabledClientWriteOps(t *testing.T) {
	c := disabledClient(t)
	ctx := context.Background()

	if err := c.Index(ctx, "listing", "1", map[string]interface{}{"name": "x"}); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := c.Unindex(ctx, "listing", "1"); err != nil {
		t.Fatalf("Unindex: %v", err)
	}
	if err := c.BulkIndex(ctx, "listing", []BulkDoc{{ID: "1", Doc: map[string]interface{}{}}}); err != nil {
		t.Fatalf("BulkIndex: %v", err)
	}
	if err := c.Refresh(ctx, "listing"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
