package engine

import (
	"sync"
	"time"

	"searchkit/config"
	"searchkit/pkg/logger"
	"searchkit/pkg/search"
)

var (
	client *search.Client
	mu     sync.Mutex
)

func connect() (*search.Client, error) {
	cfg := config.Cfg.Search
	return search.NewClient(search.Config{
		Disabled:      cfg.Disabled,
		Hosts:         cfg.Hosts,
		Indexes:       cfg.Indexes,
		Timeout:       time.Duration(cfg.TimeoutSeconds * float64(time.Second)),
		RetryCount:    cfg.RetryCount,
		RetryInterval: time.Duration(cfg.RetryIntervalSeconds * float64(time.Second)),
		DumpFile:      cfg.DumpFile,
		StatsdAddr:    cfg.StatsdAddr,
	})
}

// GetClient returns the shared engine client, connecting lazily on first
// use. Concurrent callers share one connection pool.
func GetClient() (*search.Client, error) {
	mu.Lock()
	defer mu.Unlock()
	if client != nil {
		return client, nil
	}
	c, err := connect()
	if err != nil {
		logger.Error(err, "%v: failed to build engine client", config.ModuleSearch)
		return nil, err
	}
	client = c
	return client, nil
}
