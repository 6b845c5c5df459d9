package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(version string, sessions, conversions int64, duration, bounce float64) Result {
	return NewResult("funnel-2025-08", VersionMetrics{
		Version:            version,
		Sessions:           sessions,
		AvgSessionDuration: duration,
		BounceRate:         bounce,
		Events:             map[string]int64{ConversionEvent: conversions, "quiz_complete": 99},
	})
}

func TestNewResult(t *testing.T) {
	r := res("live-a", 200, 10, 120, 40)
	assert.Equal(t, "LIVE-A", r.Version)
	assert.Equal(t, int64(10), r.Conversions)
	assert.InDelta(t, 5.0, r.ConversionRate, 1e-9)

	zero := res("live-b", 0, 3, 0, 0)
	assert.Zero(t, zero.ConversionRate)
}

func TestSignificanceOf(t *testing.T) {
	t.Run("single version is never significant", func(t *testing.T) {
		assert.Equal(t, Significance{}, SignificanceOf([]Result{res("a", 100, 10, 100, 10)}))
	})

	t.Run("compares best with second best", func(t *testing.T) {
		results := []Result{
			res("a", 100, 5, 100, 50),  // 5%
			res("b", 100, 10, 140, 40), // 10%
			res("c", 100, 9, 20, 44),   // 9%
		}
		sig := SignificanceOf(results)
		assert.False(t, sig.ConversionRate, "10 vs 9 is within 2pp")
		assert.True(t, sig.SessionDuration, "140 vs 100")
		assert.False(t, sig.BounceRate, "40 vs 44")
	})

	t.Run("bounce rate lower is better", func(t *testing.T) {
		sig := SignificanceOf([]Result{res("a", 100, 1, 0, 60), res("b", 100, 1, 0, 30)})
		assert.True(t, sig.BounceRate)
	})
}

func TestWinnerOf(t *testing.T) {
	results := []Result{res("a", 100, 5, 200, 10), res("b", 100, 10, 100, 10)}

	w := WinnerOf(results, Significance{ConversionRate: true, SessionDuration: true})
	require.NotNil(t, w)
	assert.Equal(t, "B", *w)

	w = WinnerOf(results, Significance{SessionDuration: true})
	require.NotNil(t, w)
	assert.Equal(t, "A", *w)

	assert.Nil(t, WinnerOf(results, Significance{BounceRate: true}))
	assert.Nil(t, WinnerOf(results[:1], Significance{ConversionRate: true}))
}

func TestConfidenceOf(t *testing.T) {
	tests := []struct {
		name     string
		sessions []int64
		want     float64
	}{
		{"one version", []int64{5000}, 0},
		{"low traffic", []int64{50, 50}, 75},
		{"over 200", []int64{101, 100}, 85},
		{"over 500", []int64{300, 201}, 90},
		{"over 1000", []int64{600, 401}, 95},
		{"three versions", []int64{400, 400, 400}, 90},
		{"clamped low", []int64{1, 1, 1, 1, 1, 1, 1}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []Result
			for i, s := range tt.sessions {
				results = append(results, res(string(rune('a'+i)), s, 0, 0, 0))
			}
			assert.InDelta(t, tt.want, ConfidenceOf(results), 1e-9)
		})
	}
}

func TestDistributionOf(t *testing.T) {
	d := DistributionOf([]Result{res("a", 300, 0, 0, 0), res("b", 100, 0, 0, 0)})
	assert.InDelta(t, 75.0, d["A"], 1e-9)
	assert.InDelta(t, 25.0, d["B"], 1e-9)

	d = DistributionOf([]Result{res("a", 0, 0, 0, 0)})
	assert.Zero(t, d["A"])
}

func TestCompare(t *testing.T) {
	c := Compare("funnel-2025-08", DateRange{"2025-11-01", "2025-11-24"}, []Result{
		res("live-a", 700, 14, 100, 40),
		res("live-b", 700, 42, 110, 38),
	})
	assert.Equal(t, StatusLive, c.Status)
	assert.Equal(t, int64(1400), c.TotalSessions)
	assert.Equal(t, 2, c.TotalVersions)
	require.NotNil(t, c.Winner)
	assert.Equal(t, "LIVE-B", *c.Winner)
	assert.InDelta(t, 95.0, c.Confidence, 1e-9)
}

func TestMockComparison(t *testing.T) {
	c := MockComparison("funnel-2025-08", []string{"live-a", "live-b"})
	assert.Equal(t, StatusMockData, c.Status)
	require.Len(t, c.Results, 2)
	assert.Equal(t, int64(8), c.Results[1].Sessions)
	assert.InDelta(t, 16.4, c.Results[1].ConversionRate, 1e-9)
	require.NotNil(t, c.Winner)
	assert.Equal(t, "LIVE-B", *c.Winner)
	assert.InDelta(t, 50.0, c.VersionDistribution["LIVE-A"], 1e-9)

	assert.Nil(t, MockComparison("x", []string{"only"}).Winner)
}

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2025, 11, 24, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, DateRange{"2025-11-24", "2025-11-24"}, ResolveDateRange("today", now))
	assert.Equal(t, DateRange{"2025-11-17", "2025-11-24"}, ResolveDateRange("week", now))
	assert.Equal(t, DateRange{"2025-11-01", "2025-11-24"}, ResolveDateRange("month", now))
	assert.Equal(t, DateRange{"2025-11-01", "2025-11-24"}, ResolveDateRange("", now))
}

func TestMonitorRule_Decide(t *testing.T) {
	rule := MonitorRule{MinSessions: 100, Threshold: 85}
	winner := "LIVE-B"
	conclusive := Comparison{Winner: &winner, TotalSessions: 300, Confidence: 85, Status: StatusLive}

	assert.Equal(t, "live-b", rule.Decide(conclusive))

	low := conclusive
	low.TotalSessions = 99
	assert.Empty(t, rule.Decide(low))

	unsure := conclusive
	unsure.Confidence = 80
	assert.Empty(t, rule.Decide(unsure))

	noWinner := conclusive
	noWinner.Winner = nil
	assert.Empty(t, rule.Decide(noWinner))

	mock := conclusive
	mock.Status = StatusMockData
	assert.Empty(t, rule.Decide(mock))
}
