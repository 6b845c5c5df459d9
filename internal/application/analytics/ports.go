package analytics

import (
	"context"
	"time"

	"github.com/masgolf/backend/internal/domain/analytics"
)

// Reporter reads funnel metrics from the analytics provider
type Reporter interface {
	// VersionMetrics returns the traffic and conversion events of one funnel version
	VersionMetrics(ctx context.Context, funnel, version string, dr analytics.DateRange) (analytics.VersionMetrics, error)
}

// ResultCache stores serialized comparisons. Any Get error is treated as a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
