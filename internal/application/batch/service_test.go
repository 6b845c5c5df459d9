package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/masgolf/backend/internal/domain/batch"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo     *MockJobRepository
	scraper  *MockScraper
	analyzer *MockAnalyzer
	images   *MockImageGenerator
	queue    *MockQueue
	store    *memStore
	events   *eventRecorder
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(MockJobRepository),
		scraper:  new(MockScraper),
		analyzer: new(MockAnalyzer),
		images:   new(MockImageGenerator),
		queue:    new(MockQueue),
		store:    &memStore{},
		events:   &eventRecorder{},
	}
	f.svc = NewService(f.repo, f.scraper, f.analyzer, f.images, nil)
	f.svc.SetQueue(f.queue)
	f.svc.SetImageStore(f.store)
	f.svc.SetEventPublisher(f.events)
	return f
}

func TestService_Submit(t *testing.T) {
	f := newFixture()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.queue.On("Submit", mock.Anything).Return(nil)

	resp, err := f.svc.Submit(context.Background(), SubmitRequest{URLs: []string{"https://a.example/1", "https://a.example/2"}})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 2, resp.Progress.Total)
	f.queue.AssertCalled(t, "Submit", resp.ID)
}

func TestService_Submit_InvalidURL(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Submit(context.Background(), SubmitRequest{URLs: []string{"mailto:x@y"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Submit_QueueFull(t *testing.T) {
	f := newFixture()
	var saved []*batch.Job
	f.repo.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		j := *args.Get(1).(*batch.Job)
		saved = append(saved, &j)
	}).Return(nil)
	f.queue.On("Submit", mock.Anything).Return(errors.New("queue full"))

	_, err := f.svc.Submit(context.Background(), SubmitRequest{URLs: []string{"https://a.example"}})
	assert.ErrorIs(t, err, ErrQueueUnavailable)
	require.Len(t, saved, 2)
	assert.Equal(t, batch.StatusFailed, saved[1].Status)
	assert.Contains(t, saved[1].Error, "queue full")
}

func TestService_Submit_NoQueueStoresNothing(t *testing.T) {
	repo := new(MockJobRepository)
	svc := NewService(repo, new(MockScraper), new(MockAnalyzer), new(MockImageGenerator), nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{URLs: []string{"https://a.example"}})
	assert.ErrorIs(t, err, ErrQueueUnavailable)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Process(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1", "https://a.example/2", "https://a.example/3"})
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)
	f.repo.On("Save", mock.Anything, j).Return(nil)

	f.scraper.On("Scrape", mock.Anything, "https://a.example/1").Return(&Page{Title: "Driver"}, nil)
	f.scraper.On("Scrape", mock.Anything, "https://a.example/2").Return(nil, errors.New("status 404"))
	f.scraper.On("Scrape", mock.Anything, "https://a.example/3").Return(&Page{Title: "Wedge"}, nil)
	f.analyzer.On("Analyze", mock.Anything, &Page{Title: "Driver"}).
		Return(&Analysis{Summary: "long driver", ImagePrompt: "a driver"}, nil)
	f.analyzer.On("Analyze", mock.Anything, &Page{Title: "Wedge"}).
		Return(&Analysis{Summary: "wedge"}, nil)
	f.images.On("Generate", mock.Anything, "a driver").
		Return(&GeneratedImage{Data: []byte("png"), ContentType: "image/png"}, nil)

	require.NoError(t, f.svc.Process(context.Background(), j.ID))

	assert.Equal(t, batch.StatusCompleted, j.Status)
	assert.Equal(t, batch.Progress{Total: 3, Completed: 2, Failed: 1}, j.Progress)
	require.Len(t, j.Results, 3)
	assert.Equal(t, "https://cdn.example/batch/"+j.ID.String()+"/01.png", j.Results[0].ImageURL)
	assert.Equal(t, "long driver", j.Results[0].Analysis)
	assert.False(t, j.Results[1].Success)
	assert.Contains(t, j.Results[1].Error, "scrape")
	assert.Empty(t, j.Results[2].ImageURL)
	f.images.AssertNumberOfCalls(t, "Generate", 1)
	// started + one save per url
	f.repo.AssertNumberOfCalls(t, "Save", 4)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, batch.EventTypeBatchCompleted, f.events.events[0].EventType())
}

func TestService_Process_ImageFailureFailsItem(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1"})
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)
	f.repo.On("Save", mock.Anything, j).Return(nil)
	f.scraper.On("Scrape", mock.Anything, mock.Anything).Return(&Page{Title: "x"}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(&Analysis{Summary: "s", ImagePrompt: "p"}, nil)
	f.images.On("Generate", mock.Anything, "p").Return(nil, errors.New("quota"))

	require.NoError(t, f.svc.Process(context.Background(), j.ID))
	assert.Equal(t, 1, j.Progress.Failed)
	assert.Contains(t, j.Results[0].Error, "image")
}

func TestService_Process_HostedImage(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1"})
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)
	f.repo.On("Save", mock.Anything, j).Return(nil)
	f.scraper.On("Scrape", mock.Anything, mock.Anything).Return(&Page{}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(&Analysis{ImagePrompt: "p"}, nil)
	f.images.On("Generate", mock.Anything, "p").Return(&GeneratedImage{URL: "https://img.example/1.png"}, nil)

	require.NoError(t, f.svc.Process(context.Background(), j.ID))
	assert.Equal(t, "https://img.example/1.png", j.Results[0].ImageURL)
	assert.Empty(t, f.store.objects)
}

func TestService_Process_ResumesAfterLastResult(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1", "https://a.example/2"})
	require.NoError(t, j.Start())
	j.Record(batch.ItemResult{URL: "https://a.example/1", Success: true})
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)
	f.repo.On("Save", mock.Anything, j).Return(nil)
	f.scraper.On("Scrape", mock.Anything, "https://a.example/2").Return(&Page{}, nil)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(&Analysis{}, nil)

	require.NoError(t, f.svc.Process(context.Background(), j.ID))
	f.scraper.AssertNumberOfCalls(t, "Scrape", 1)
	assert.Equal(t, batch.StatusCompleted, j.Status)
}

func TestService_Process_TerminalJobIsSkipped(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1"})
	j.Abort("x")
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)

	require.NoError(t, f.svc.Process(context.Background(), j.ID))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.scraper.AssertNotCalled(t, "Scrape", mock.Anything, mock.Anything)
}

func TestService_Process_Cancelled(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1"})
	f.repo.On("FindByID", mock.Anything, j.ID).Return(j, nil)
	f.repo.On("Save", mock.Anything, j).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.svc.Process(ctx, j.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, batch.StatusProcessing, j.Status)
	assert.Empty(t, f.events.events)
}

func TestService_ResumePending(t *testing.T) {
	f := newFixture()
	a, _ := batch.NewJob([]string{"https://a.example/1"})
	b, _ := batch.NewJob([]string{"https://a.example/2"})
	f.repo.On("FindByStatus", mock.Anything, batch.StatusProcessing).Return([]batch.Job{*a}, nil)
	f.repo.On("FindByStatus", mock.Anything, batch.StatusPending).Return([]batch.Job{*b}, nil)
	f.queue.On("Submit", a.ID).Return(nil)
	f.queue.On("Submit", b.ID).Return(errors.New("full"))

	n, err := f.svc.ResumePending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_List(t *testing.T) {
	f := newFixture()
	j, _ := batch.NewJob([]string{"https://a.example/1"})
	f.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Page == 1 && fl.OrderBy == "created_at"
	})).Return([]batch.Job{*j}, int64(1), nil)

	page, err := f.svc.List(context.Background(), ListJobsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, j.ID, page.Items[0].ID)
}
