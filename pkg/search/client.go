package search

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/olivere/elastic/v7"

	"searchkit/pkg/logger"
)

// ErrNoHosts is returned when a client is built without any engine host.
var ErrNoHosts = errors.New("search: no hosts configured")

// Config carries the passthrough settings forwarded to the engine client.
type Config struct {
	// Disabled short-circuits every call: executions return empty results
	// and index/unindex become no-ops, each logging a warning once.
	Disabled bool

	// Hosts is the ordered list of engine addresses for the connection pool.
	Hosts []string

	// Indexes maps doc type names to index names. The "default" entry is
	// required; unmapped doc types fall back to it.
	Indexes map[string]string

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration

	// RetryCount and RetryInterval govern retries on timeout before the
	// failure surfaces. Zero RetryCount means no retries.
	RetryCount    int
	RetryInterval time.Duration

	// DumpFile, when set, receives every outgoing request body appended
	// for offline inspection.
	DumpFile string

	// StatsdAddr, when set, enables search timing and retry counters.
	StatsdAddr string
}

// Client executes search specs against the engine. It is safe for
// concurrent use.
type Client struct {
	es    *elastic.Client
	cfg   Config
	stats statsd.Statter

	warned sync.Map // call-site tag -> struct{}, so the disabled warning logs once
}

// NewClient connects to the engine using the passthrough config. A disabled
// client performs no I/O at all, not even during construction.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Indexes["default"] == "" {
		return nil, errors.New("search: index mapping requires a default entry")
	}

	c := &Client{cfg: cfg}

	if cfg.StatsdAddr != "" {
		stats, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
			Address: cfg.StatsdAddr,
			Prefix:  "searchkit",
		})
		if err != nil {
			logger.Error(err, "search: statsd unavailable, metrics disabled")
		} else {
			c.stats = stats
		}
	}

	if cfg.Disabled {
		return c, nil
	}
	if len(cfg.Hosts) == 0 {
		return nil, ErrNoHosts
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.DumpFile != "" {
		httpClient.Transport = newDumpTransport(cfg.DumpFile, nil)
	}

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(cfg.Hosts...),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(httpClient),
		elastic.SetErrorLog(logger.GetLogger()),
	}
	if cfg.RetryCount > 0 {
		opts = append(opts, elastic.SetRetrier(newTimeoutRetrier(cfg.RetryCount, cfg.RetryInterval, c.stats)))
	}

	es, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	c.es = es
	return c, nil
}

// Disabled reports whether the client short-circuits all engine calls.
func (c *Client) Disabled() bool { return c.cfg.Disabled }

// IndexFor resolves the index a doc type targets, falling back to the
// default entry of the mapping.
func (c *Client) IndexFor(docType string) string {
	if idx, ok := c.cfg.Indexes[docType]; ok && idx != "" {
		return idx
	}
	return c.cfg.Indexes["default"]
}

// Do executes the spec and parses the response. When the client is
// disabled it returns an empty result set and logs a warning once per doc
// type.
func (c *Client) Do(ctx context.Context, s S) (*Results, error) {
	if c.cfg.Disabled {
		c.warnDisabled("search:" + s.docType)
		return emptyResults(), nil
	}

	src, err := s.Build()
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search().Index(c.IndexFor(s.docType)).SearchSource(src).Do(ctx)
	if err != nil {
		if body, serr := s.Source(); serr == nil {
			logger.Error(err, "search: query failed: %+v", body)
		} else {
			logger.Error(err, "search: query failed")
		}
		return nil, err
	}

	if c.stats != nil {
		c.stats.TimingDuration("search", time.Duration(res.TookInMillis)*time.Millisecond, 1.0)
	}
	logger.Debug("search: [%dms] %s", res.TookInMillis, s.docType)

	return newResults(res, s.facets)
}

// Count returns the number of hits for the spec's query and filters. A
// disabled client reports zero.
func (c *Client) Count(ctx context.Context, s S) (int64, error) {
	res, err := c.Do(ctx, s.Limit(0))
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// Ping checks engine reachability. Trivially healthy when disabled.
func (c *Client) Ping(ctx context.Context) error {
	if c.cfg.Disabled {
		return nil
	}
	_, _, err := c.es.Ping(c.cfg.Hosts[0]).Do(ctx)
	return err
}

func (c *Client) warnDisabled(tag string) {
	if _, seen := c.warned.LoadOrStore(tag, struct{}{}); !seen {
		logger.Warn("search disabled for %s", tag)
	}
}
