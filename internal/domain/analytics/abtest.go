package analytics

import (
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/shared"
)

// Conversion events tracked on funnel pages; only phone_click counts as a conversion
var ConversionEvents = []string{"phone_click", "booking_submit", "inquiry_submit", "quiz_complete"}

const (
	ConversionEvent = "phone_click"

	conversionRateDelta  = 2.0
	sessionDurationDelta = 30.0
	bounceRateDelta      = 5.0

	baseConfidence = 75.0
	minConfidence  = 50.0
	maxConfidence  = 95.0
)

// Status values of a Comparison
const (
	StatusLive     = "live"
	StatusMockData = "mock_data"
)

// DateRange is an inclusive GA4 date window (YYYY-MM-DD)
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ResolveDateRange maps today/week/month to dates; unknown names fall back to month
func ResolveDateRange(name string, now time.Time) DateRange {
	end := now.Format(time.DateOnly)
	switch name {
	case "today":
		return DateRange{StartDate: end, EndDate: end}
	case "week":
		return DateRange{StartDate: now.AddDate(0, 0, -7).Format(time.DateOnly), EndDate: end}
	default:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{StartDate: first.Format(time.DateOnly), EndDate: end}
	}
}

// VersionMetrics are the raw GA4 numbers of one funnel version
type VersionMetrics struct {
	Version            string
	Sessions           int64
	PageViews          int64
	AvgSessionDuration float64
	BounceRate         float64
	Events             map[string]int64
}

// Result is the per-version row of a comparison
type Result struct {
	TestName           string  `json:"testName"`
	Version            string  `json:"version"`
	Sessions           int64   `json:"sessions"`
	Conversions        int64   `json:"conversions"`
	ConversionRate     float64 `json:"conversionRate"`
	AvgSessionDuration float64 `json:"avgSessionDuration"`
	BounceRate         float64 `json:"bounceRate"`
	PageViews          int64   `json:"pageViews"`
}

// Significance flags which metric differences are large enough to act on
type Significance struct {
	ConversionRate  bool `json:"conversionRate"`
	SessionDuration bool `json:"sessionDuration"`
	BounceRate      bool `json:"bounceRate"`
}

// Comparison is the A/B(/C...) test report
type Comparison struct {
	TestName            string             `json:"testName"`
	DateRange           DateRange          `json:"dateRange"`
	Results             []Result           `json:"results"`
	Significance        Significance       `json:"significance"`
	Winner              *string            `json:"winner"`
	Confidence          float64            `json:"confidence"`
	TotalVersions       int                `json:"totalVersions"`
	VersionDistribution map[string]float64 `json:"versionDistribution"`
	TotalSessions       int64              `json:"totalSessions"`
	Status              string             `json:"status"`
}

// NewResult converts raw metrics into a result row
func NewResult(testName string, m VersionMetrics) Result {
	r := Result{
		TestName:           testName,
		Version:            strings.ToUpper(m.Version),
		Sessions:           m.Sessions,
		Conversions:        m.Events[ConversionEvent],
		AvgSessionDuration: m.AvgSessionDuration,
		BounceRate:         m.BounceRate,
		PageViews:          m.PageViews,
	}
	if r.Sessions > 0 {
		r.ConversionRate = float64(r.Conversions) / float64(r.Sessions) * 100
	}
	return r
}

// Compare builds the full comparison from per-version results
func Compare(testName string, dr DateRange, results []Result) Comparison {
	sig := SignificanceOf(results)
	c := Comparison{
		TestName:            testName,
		DateRange:           dr,
		Results:             results,
		Significance:        sig,
		Winner:              WinnerOf(results, sig),
		Confidence:          ConfidenceOf(results),
		TotalVersions:       len(results),
		VersionDistribution: DistributionOf(results),
		Status:              StatusLive,
	}
	for _, r := range results {
		c.TotalSessions += r.Sessions
	}
	return c
}

// topTwo returns the best and second-best values of f, where better means larger
func topTwo(results []Result, f func(Result) float64) (best, second float64) {
	for i, r := range results {
		v := f(r)
		switch {
		case i == 0:
			best = v
		case i == 1:
			if v > best {
				best, second = v, best
			} else {
				second = v
			}
		case v > best:
			best, second = v, best
		case v > second:
			second = v
		}
	}
	return best, second
}

// SignificanceOf compares the best and second-best version on each metric
func SignificanceOf(results []Result) Significance {
	if len(results) < 2 {
		return Significance{}
	}
	bestConv, secondConv := topTwo(results, func(r Result) float64 { return r.ConversionRate })
	bestDur, secondDur := topTwo(results, func(r Result) float64 { return r.AvgSessionDuration })
	// lower bounce is better
	negBest, negSecond := topTwo(results, func(r Result) float64 { return -r.BounceRate })
	return Significance{
		ConversionRate:  bestConv-secondConv > conversionRateDelta,
		SessionDuration: bestDur-secondDur > sessionDurationDelta,
		BounceRate:      negBest-negSecond > bounceRateDelta,
	}
}

// WinnerOf picks by conversion rate, then by session duration; ties go to the earlier version
func WinnerOf(results []Result, sig Significance) *string {
	if len(results) < 2 {
		return nil
	}
	var f func(Result) float64
	switch {
	case sig.ConversionRate:
		f = func(r Result) float64 { return r.ConversionRate }
	case sig.SessionDuration:
		f = func(r Result) float64 { return r.AvgSessionDuration }
	default:
		return nil
	}
	best := results[0]
	for _, r := range results[1:] {
		if f(r) > f(best) {
			best = r
		}
	}
	return &best.Version
}

// ConfidenceOf grows with traffic and shrinks with the number of versions, within [50, 95]
func ConfidenceOf(results []Result) float64 {
	if len(results) < 2 {
		return 0
	}
	var total int64
	for _, r := range results {
		total += r.Sessions
	}
	c := baseConfidence
	switch {
	case total > 1000:
		c += 20
	case total > 500:
		c += 15
	case total > 200:
		c += 10
	}
	c -= float64(len(results)-2) * 5
	return max(minConfidence, min(maxConfidence, c))
}

// DistributionOf returns each version's share of sessions in percent
func DistributionOf(results []Result) map[string]float64 {
	var total int64
	for _, r := range results {
		total += r.Sessions
	}
	d := make(map[string]float64, len(results))
	for _, r := range results {
		if total > 0 {
			d[r.Version] = float64(r.Sessions) / float64(total) * 100
		} else {
			d[r.Version] = 0
		}
	}
	return d
}

// MockComparison is the placeholder report served when GA4 is unreachable
func MockComparison(testName string, versions []string) Comparison {
	results := make([]Result, len(versions))
	dist := make(map[string]float64, len(versions))
	for i, v := range versions {
		label := strings.ToUpper(v)
		results[i] = Result{
			TestName:           testName,
			Version:            label,
			Sessions:           int64(7 + i),
			Conversions:        int64(1 + i),
			ConversionRate:     14.3 + float64(i)*2.1,
			AvgSessionDuration: 147,
			BounceRate:         20,
			PageViews:          int64(27 + i),
		}
		dist[label] = 100 / float64(len(versions))
	}
	var winner *string
	if len(versions) > 1 {
		w := results[1].Version
		winner = &w
	}
	return Comparison{
		TestName:            testName,
		DateRange:           DateRange{StartDate: "2025-08-01", EndDate: "2025-08-15"},
		Results:             results,
		Significance:        Significance{ConversionRate: true},
		Winner:              winner,
		Confidence:          baseConfidence,
		TotalVersions:       len(versions),
		VersionDistribution: dist,
		Status:              StatusMockData,
	}
}

// Settings holds the live variant of a funnel test
type Settings struct {
	shared.BaseEntity
	TestName      string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"test_name"`
	ActiveVersion string     `gorm:"type:varchar(50)" json:"active_version"`
	AutoSwitch    bool       `gorm:"not null" json:"auto_switch"`
	SwitchedAt    *time.Time `json:"switched_at,omitempty"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "ab_test_settings"
}

// MonitorRule is the threshold check for automatic winner promotion
type MonitorRule struct {
	MinSessions int64
	Threshold   float64
}

// Decide returns the version to promote, or "" when the comparison is not conclusive.
// Mock data never promotes.
func (r MonitorRule) Decide(c Comparison) string {
	if c.Status == StatusMockData || c.Winner == nil {
		return ""
	}
	if c.TotalSessions < r.MinSessions || c.Confidence < r.Threshold {
		return ""
	}
	return strings.ToLower(*c.Winner)
}
