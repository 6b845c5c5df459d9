// Package ga4 reads funnel metrics from the Google Analytics Data API.
package ga4

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	analyticsapp "github.com/masgolf/backend/internal/application/analytics"
	"github.com/masgolf/backend/internal/domain/analytics"
	"github.com/masgolf/backend/internal/infrastructure/config"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no GA4 property is configured
var ErrNotConfigured = errors.New("ga4: property id is not configured")

// pageMetrics are read from the funnel page report, in this order
var pageMetrics = []string{"sessions", "screenPageViews", "averageSessionDuration", "bounceRate"}

// Reporter implements analyticsapp.Reporter with runReport calls
type Reporter struct {
	svc      *analyticsdata.Service
	property string
}

// NewReporter creates a reporter. Credentials come from cfg.CredentialsFile when
// set, otherwise from Application Default Credentials. Extra options are
// appended, which lets tests point the client at a fake endpoint.
func NewReporter(ctx context.Context, cfg config.GA4Config, opts ...option.ClientOption) (*Reporter, error) {
	if cfg.PropertyID == "" {
		return nil, ErrNotConfigured
	}
	var all []option.ClientOption
	if cfg.CredentialsFile != "" {
		all = append(all, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	all = append(all, opts...)
	svc, err := analyticsdata.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("ga4: failed to create client: %w", err)
	}
	return &Reporter{svc: svc, property: "properties/" + cfg.PropertyID}, nil
}

// PagePath is the path prefix a funnel version is served under
func PagePath(funnel, version string) string {
	return "/versions/" + funnel + "-" + version
}

func pathFilter(funnel, version string) *analyticsdata.FilterExpression {
	return &analyticsdata.FilterExpression{
		Filter: &analyticsdata.Filter{
			FieldName: "pagePath",
			StringFilter: &analyticsdata.StringFilter{
				MatchType: "BEGINS_WITH",
				Value:     PagePath(funnel, version),
			},
		},
	}
}

// VersionMetrics runs the page report and the conversion event report of one version
func (r *Reporter) VersionMetrics(ctx context.Context, funnel, version string, dr analytics.DateRange) (analytics.VersionMetrics, error) {
	out := analytics.VersionMetrics{Version: version, Events: map[string]int64{}}
	ranges := []*analyticsdata.DateRange{{StartDate: dr.StartDate, EndDate: dr.EndDate}}

	metrics := make([]*analyticsdata.Metric, len(pageMetrics))
	for i, name := range pageMetrics {
		metrics[i] = &analyticsdata.Metric{Name: name}
	}
	page, err := r.svc.Properties.RunReport(r.property, &analyticsdata.RunReportRequest{
		DateRanges:      ranges,
		Metrics:         metrics,
		DimensionFilter: pathFilter(funnel, version),
	}).Context(ctx).Do()
	if err != nil {
		return out, fmt.Errorf("ga4: page report for %s: %w", version, err)
	}
	if len(page.Rows) > 0 {
		values := page.Rows[0].MetricValues
		out.Sessions = int64(metricAt(values, 0))
		out.PageViews = int64(metricAt(values, 1))
		out.AvgSessionDuration = metricAt(values, 2)
		// GA4 reports bounce rate as a fraction
		out.BounceRate = metricAt(values, 3) * 100
	}

	events, err := r.svc.Properties.RunReport(r.property, &analyticsdata.RunReportRequest{
		DateRanges: ranges,
		Metrics:    []*analyticsdata.Metric{{Name: "eventCount"}},
		Dimensions: []*analyticsdata.Dimension{{Name: "eventName"}},
		DimensionFilter: &analyticsdata.FilterExpression{
			AndGroup: &analyticsdata.FilterExpressionList{
				Expressions: []*analyticsdata.FilterExpression{
					pathFilter(funnel, version),
					{Filter: &analyticsdata.Filter{
						FieldName:    "eventName",
						InListFilter: &analyticsdata.InListFilter{Values: analytics.ConversionEvents},
					}},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return out, fmt.Errorf("ga4: event report for %s: %w", version, err)
	}
	for _, row := range events.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		out.Events[row.DimensionValues[0].Value] += int64(metricAt(row.MetricValues, 0))
	}
	return out, nil
}

func metricAt(values []*analyticsdata.MetricValue, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	v, err := strconv.ParseFloat(values[i].Value, 64)
	if err != nil {
		return 0
	}
	return v
}

var _ analyticsapp.Reporter = (*Reporter)(nil)
