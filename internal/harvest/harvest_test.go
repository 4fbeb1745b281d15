package harvest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludunivalle/cosecha/internal/model"
)

const personalInfoHTML = `
<html><body>
<table>
<tr bgcolor="#eee"><td>CEDULA</td><td>NOMBRE</td><td>1 APELLIDO</td></tr>
<tr><td>123456789</td><td>Maria</td><td>Gomez</td></tr>
</table>
</body></html>
`

// fakeFetcher always succeeds, recording every URL it was asked to
// fetch for assertions on call shape.
type fakeFetcher struct {
	mu          sync.Mutex
	fetchedURLs []string
}

func (f *fakeFetcher) FetchDecoded(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.fetchedURLs = append(f.fetchedURLs, url)
	f.mu.Unlock()
	return personalInfoHTML, nil
}

type recordingSink struct {
	mu   sync.Mutex
	docs []*model.FacultyDocument
}

func (s *recordingSink) Add(doc *model.FacultyDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

func TestSchedulerRunProducesOneDocumentPerCedulaPeriod(t *testing.T) {
	fetcher := &fakeFetcher{}
	sched := NewScheduler(fetcher, Config{BaseURL: "http://portal.test", Concurrency: 2}, nil)
	sink := &recordingSink{}

	periods := []model.Period{{ID: 1, Label: "2026-1"}, {ID: 2, Label: "2025-2"}}
	run := sched.Run(context.Background(), []string{"111", "222"}, periods, sink)

	assert.Len(t, run.Documents, 4)
	assert.Len(t, sink.docs, 4)
	assert.Empty(t, run.CriticalErrors)
}

type partialFailFetcher struct{}

func (partialFailFetcher) FetchDecoded(ctx context.Context, url string) (string, error) {
	if containsSubstring(url, "periodo=2") {
		return "", errors.New("transport failure")
	}
	return personalInfoHTML, nil
}

func containsSubstring(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}

func TestSchedulerRecordsPerCedulaErrorsWithoutAbortingTheRun(t *testing.T) {
	sched := NewScheduler(partialFailFetcher{}, Config{BaseURL: "http://portal.test", Concurrency: 2}, nil)
	sink := &recordingSink{}

	periods := []model.Period{{ID: 1, Label: "2026-1"}, {ID: 2, Label: "2025-2"}}
	run := sched.Run(context.Background(), []string{"111"}, periods, sink)

	assert.Len(t, run.Documents, 1)
	assert.Len(t, run.PerCedulaErrors["111"], 1)
	assert.Equal(t, "2025-2", run.PerCedulaErrors["111"][0].Period)
}

// reverseLatencyFetcher makes later periods finish first, so the only
// way the scheduler can return documents in period order is by sorting
// them after the fan-out completes, not by channel-arrival order.
type reverseLatencyFetcher struct{}

func (reverseLatencyFetcher) FetchDecoded(ctx context.Context, url string) (string, error) {
	if containsSubstring(url, "periodo=1") {
		time.Sleep(30 * time.Millisecond)
	}
	return personalInfoHTML, nil
}

func TestSchedulerPreservesPeriodOrderRegardlessOfFetchCompletionOrder(t *testing.T) {
	sched := NewScheduler(reverseLatencyFetcher{}, Config{BaseURL: "http://portal.test", Concurrency: 4}, nil)
	sink := &recordingSink{}

	periods := []model.Period{
		{ID: 1, Label: "2026-1"},
		{ID: 2, Label: "2025-2"},
		{ID: 3, Label: "2025-1"},
	}
	run := sched.Run(context.Background(), []string{"111"}, periods, sink)

	require := require.New(t)
	require.Len(run.Documents, 3)
	require.Len(sink.docs, 3)

	var gotLabels, wantLabels []string
	for _, p := range periods {
		wantLabels = append(wantLabels, p.Label)
	}
	for _, d := range run.Documents {
		gotLabels = append(gotLabels, d.PeriodLabel)
	}
	assert.Equal(t, wantLabels, gotLabels)

	gotLabels = nil
	for _, d := range sink.docs {
		gotLabels = append(gotLabels, d.PeriodLabel)
	}
	assert.Equal(t, wantLabels, gotLabels)
}

func TestSchedulerStopsOnContextCancellation(t *testing.T) {
	sched := NewScheduler(&fakeFetcher{}, Config{BaseURL: "http://portal.test", DelayBetweenCedulas: 50 * time.Millisecond}, nil)
	sink := &recordingSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	periods := []model.Period{{ID: 1, Label: "2026-1"}}
	run := sched.Run(ctx, []string{"111", "222"}, periods, sink)

	assert.NotEmpty(t, run.CriticalErrors)
}
