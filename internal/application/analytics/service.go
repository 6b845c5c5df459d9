// Package analytics serves A/B funnel comparisons and promotes winners.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/masgolf/backend/internal/domain/analytics"
	"github.com/masgolf/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFunnel   = "funnel-2025-08"
	resultsCacheTTL = 5 * time.Minute
	maxParallel     = 4
)

var defaultVersions = []string{"live-a", "live-b"}

// Service handles A/B result and monitor use cases
type Service struct {
	reporter Reporter
	settings analytics.SettingsRepository
	cache    ResultCache
	notifier shared.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new analytics Service. A nil reporter serves mock data.
func NewService(reporter Reporter, settings analytics.SettingsRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reporter: reporter,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// SetCache enables result caching
func (s *Service) SetCache(c ResultCache) {
	s.cache = c
}

// SetNotifier enables winner notifications
func (s *Service) SetNotifier(n shared.Notifier) {
	s.notifier = n
}

func normalizeQuery(q ResultsQuery) ResultsQuery {
	if q.Funnel == "" {
		q.Funnel = defaultFunnel
	}
	versions := make([]string, 0, len(q.Versions))
	for _, v := range q.Versions {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				versions = append(versions, part)
			}
		}
	}
	if len(versions) == 0 {
		versions = defaultVersions
	}
	q.Versions = versions
	return q
}

// Results compares the funnel versions over the date range. It never fails:
// when the reporter errors the placeholder comparison is returned instead.
func (s *Service) Results(ctx context.Context, q ResultsQuery) analytics.Comparison {
	q = normalizeQuery(q)
	dr := analytics.ResolveDateRange(q.DateRange, s.now())
	key := fmt.Sprintf("ab:results:%s:%s:%s:%s", q.Funnel, strings.Join(q.Versions, ","), dr.StartDate, dr.EndDate)

	if cached, ok := s.cached(ctx, key); ok {
		return cached
	}
	if s.reporter == nil {
		return analytics.MockComparison(q.Funnel, q.Versions)
	}

	results, err := s.fetch(ctx, q.Funnel, q.Versions, dr)
	if err != nil {
		s.logger.Warn("GA4 query failed, serving mock data",
			zap.String("funnel", q.Funnel),
			zap.Error(err))
		return analytics.MockComparison(q.Funnel, q.Versions)
	}

	c := analytics.Compare(q.Funnel, dr, results)
	s.store(ctx, key, c)
	return c
}

// fetch queries every version in parallel; the first error cancels the rest
func (s *Service) fetch(ctx context.Context, funnel string, versions []string, dr analytics.DateRange) ([]analytics.Result, error) {
	results := make([]analytics.Result, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, version := range versions {
		g.Go(func() error {
			m, err := s.reporter.VersionMetrics(gctx, funnel, version, dr)
			if err != nil {
				return fmt.Errorf("version %s: %w", version, err)
			}
			m.Version = version
			results[i] = analytics.NewResult(funnel, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) cached(ctx context.Context, key string) (analytics.Comparison, bool) {
	var c analytics.Comparison
	if s.cache == nil {
		return c, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return c, false
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		s.logger.Warn("Discarding unreadable cached comparison", zap.String("key", key), zap.Error(err))
		return c, false
	}
	return c, true
}

func (s *Service) store(ctx context.Context, key string, c analytics.Comparison) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, resultsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache comparison", zap.String("key", key), zap.Error(err))
	}
}

// Monitor fetches the current comparison and promotes a conclusive winner to
// the active version. Promoting the version that is already active is a no-op.
func (s *Service) Monitor(ctx context.Context, cfg MonitorConfig) (*MonitorOutcome, error) {
	c := s.Results(ctx, ResultsQuery{Funnel: cfg.Funnel, Versions: cfg.Versions, DateRange: cfg.DateRange})
	out := &MonitorOutcome{
		TestName:      c.TestName,
		Status:        c.Status,
		Confidence:    c.Confidence,
		TotalSessions: c.TotalSessions,
	}

	winner := analytics.MonitorRule{MinSessions: cfg.MinSessions, Threshold: cfg.Threshold}.Decide(c)
	if winner == "" {
		return out, nil
	}
	out.Winner = winner

	settings, err := s.settings.Get(ctx, c.TestName)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		settings = &analytics.Settings{BaseEntity: shared.NewBaseEntity(), TestName: c.TestName, AutoSwitch: true}
	case err != nil:
		return nil, err
	}
	out.ActiveVersion = settings.ActiveVersion
	if !settings.AutoSwitch || settings.ActiveVersion == winner {
		return out, nil
	}

	previous := settings.ActiveVersion
	now := s.now()
	settings.ActiveVersion = winner
	settings.SwitchedAt = &now
	settings.Touch()
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	out.Switched = true
	out.ActiveVersion = winner

	s.logger.Info("A/B winner promoted",
		zap.String("test_name", c.TestName),
		zap.String("from", previous),
		zap.String("to", winner),
		zap.Float64("confidence", c.Confidence))
	s.notifyWinner(ctx, c, previous, winner)
	return out, nil
}

func (s *Service) notifyWinner(ctx context.Context, c analytics.Comparison, previous, winner string) {
	if s.notifier == nil {
		return
	}
	if previous == "" {
		previous = "-"
	}
	n := shared.Notification{
		Title: "A/B 테스트 승자 전환",
		Fields: []shared.NotificationField{
			{Label: "테스트", Value: c.TestName},
			{Label: "전환", Value: previous + " → " + winner},
			{Label: "신뢰도", Value: fmt.Sprintf("%.0f%%", c.Confidence)},
			{Label: "세션", Value: fmt.Sprintf("%d", c.TotalSessions)},
		},
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("Winner notification failed", zap.Error(err))
	}
}

// GetSettings returns the live variant of a test
func (s *Service) GetSettings(ctx context.Context, testName string) (*SettingsResponse, error) {
	settings, err := s.settings.Get(ctx, testName)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings sets the live variant by hand
func (s *Service) UpdateSettings(ctx context.Context, testName string, req SettingsRequest) (*SettingsResponse, error) {
	if strings.TrimSpace(testName) == "" {
		return nil, shared.InvalidInput("test name is required")
	}
	settings, err := s.settings.Get(ctx, testName)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		settings = &analytics.Settings{BaseEntity: shared.NewBaseEntity(), TestName: testName}
	case err != nil:
		return nil, err
	}
	if settings.ActiveVersion != req.ActiveVersion {
		now := s.now()
		settings.ActiveVersion = req.ActiveVersion
		settings.SwitchedAt = &now
	}
	if req.AutoSwitch != nil {
		settings.AutoSwitch = *req.AutoSwitch
	}
	settings.Touch()
	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(s *analytics.Settings) *SettingsResponse {
	return &SettingsResponse{
		TestName:      s.TestName,
		ActiveVersion: s.ActiveVersion,
		AutoSwitch:    s.AutoSwitch,
		SwitchedAt:    s.SwitchedAt,
	}
}
