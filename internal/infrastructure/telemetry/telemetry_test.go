package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestMetrics_RecordCampaignSend(t *testing.T) {
	m := NewMetrics(nil)
	m.RecordCampaignSend(context.Background(), "sent", 198, 2)
	m.RecordCampaignSend(context.Background(), "partial", 1, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.campaignSends.WithLabelValues("sent")))
	assert.Equal(t, 199.0, testutil.ToFloat64(m.campaignMessages.WithLabelValues("success")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.campaignMessages.WithLabelValues("fail")))
}

func TestMetrics_RecordCampaignSend_OTel(t *testing.T) {
	prev := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(prev)
		_ = provider.Shutdown(context.Background())
	})

	m := NewMetrics(nil)
	m.RecordCampaignSend(context.Background(), "partial", 7, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "masgolf.campaign.messages" {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("result")
				got[v.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"success": 7, "fail": 2}, got)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveHTTP(http.MethodGet, "/api/v1/bookings", 200, 15*time.Millisecond)
	m.RecordTaskRun("sms-dispatch", errors.New("boom"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `masgolf_http_requests_total{method="GET",route="/api/v1/bookings",status="200"} 1`)
	assert.Contains(t, body, `masgolf_scheduled_task_runs_total{outcome="error",task="sms-dispatch"} 1`)
}

type fixedStats struct{ due, open int64 }

func (s fixedStats) CountDueCampaigns(context.Context, time.Time) (int64, error) { return s.due, nil }
func (s fixedStats) CountOpenBatchJobs(context.Context) (int64, error)           { return s.open, nil }

func TestMetrics_StartCollection(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewMetrics(nil)
	ctx, cancel := context.WithCancel(context.Background())
	m.StartCollection(ctx, fixedStats{due: 3, open: 2}, time.Hour)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dueCampaigns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.openBatchJobs))

	m.Stop()
	cancel()
}

func TestGormStatsProvider(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE channel_sms (id TEXT, status TEXT, scheduled_at DATETIME)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE batch_jobs (id TEXT, status TEXT)`).Error)

	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec(`INSERT INTO channel_sms VALUES ('a','draft',?),('b','draft',?),('c','sent',?),('d','draft',NULL)`,
		now.Add(-time.Hour), now.Add(time.Hour), now.Add(-time.Hour)).Error)
	require.NoError(t, db.Exec(`INSERT INTO batch_jobs VALUES ('a','pending'),('b','processing'),('c','completed')`).Error)

	p := NewGormStatsProvider(db)
	due, err := p.CountDueCampaigns(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), due)
	open, err := p.CountOpenBatchJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)
}
