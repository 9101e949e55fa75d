package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/olivere/elastic/v7"

	"searchkit/pkg/logger"
)

// timeoutRetrier retries timed-out requests at a constant interval up to a
// configured number of attempts, then lets the timeout surface. Anything
// other than a timeout is surfaced immediately; connection-level failures
// are the engine client's problem, not ours.
type timeoutRetrier struct {
	maxRetries int
	backoff    elastic.Backoff
	stats      statsd.Statter
}

func newTimeoutRetrier(maxRetries int, interval time.Duration, stats statsd.Statter) *timeoutRetrier {
	return &timeoutRetrier{
		maxRetries: maxRetries,
		backoff:    elastic.NewConstantBackoff(interval),
		stats:      stats,
	}
}

func (r *timeoutRetrier) Retry(ctx context.Context, retry int, req *http.Request, resp *http.Response, err error) (time.Duration, bool, error) {
	if err == nil || !isTimeout(err) {
		return 0, false, nil
	}
	if retry > r.maxRetries {
		logger.Errorf("search: attempt %d timed out, returning: %v", retry, err)
		return 0, false, nil
	}
	if r.stats != nil {
		r.stats.Inc(fmt.Sprintf("search.timeout.retry%d", retry), 1, 1.0)
	}
	logger.Errorf("search: attempt %d timed out, retrying: %v", retry, err)
	wait, goahead := r.backoff.Next(retry)
	if !goahead {
		return 0, false, nil
	}
	return wait, true, nil
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
