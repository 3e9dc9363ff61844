package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/mls-monitor/internal/diff"
	"github.com/yourorg/mls-monitor/internal/events"
	"github.com/yourorg/mls-monitor/internal/fetch"
	"github.com/yourorg/mls-monitor/internal/filter"
	"github.com/yourorg/mls-monitor/internal/listing"
	"github.com/yourorg/mls-monitor/internal/store"
)

func intPtr(v int) *int { return &v }

type scriptedFetcher struct {
	name    string
	byZip   map[string][]listing.Listing
	block   chan struct{} // when set, FetchListings waits on it
	mu      sync.Mutex
	calls   int
}

func (f *scriptedFetcher) Name() string { return f.name }

func (f *scriptedFetcher) FetchListings(ctx context.Context, zipcode string, _ fetch.Query) ([]listing.Listing, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.byZip[zipcode], nil
}

func sampleListing(id, address, zip string, price int) listing.Listing {
	return listing.Listing{
		ID:          id,
		Address:     address,
		Zipcode:     zip,
		Price:       price,
		LotSizeSqft: intPtr(9000),
		Status:      listing.StatusActive,
		SourceAPI:   "rentcast",
	}
}

func newTestMonitor(t *testing.T, f fetch.Fetcher) (*Monitor, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(dir)
	require.NoError(t, err)
	router := fetch.NewRouter(st, []fetch.Fetcher{f}, map[string]int{f.Name(): 100})
	router.Limiter = nil
	m := New(st, router, filter.Config{MinLotSizeSqft: 8000}, nil, []string{"92109"})
	return m, dir
}

func TestRunCheckFirstCycleReportsAllNew(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {
			sampleListing("a", "1 First St", "92109", 800000),
			sampleListing("b", "2 Second St", "92109", 900000),
		},
	}}
	m, _ := newTestMonitor(t, f)

	res, err := m.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.NewListings, 2)
	assert.Equal(t, 2, res.Summary.TotalCurrent)
	assert.Equal(t, 0, res.Summary.RemovedCount)

	persisted, err := m.Store.LoadListings()
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
	assert.False(t, persisted["a"].FirstSeen.IsZero())
}

func TestRunCheckSecondCycleDiffs(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {
			sampleListing("a", "1 First St", "92109", 800000),
			sampleListing("b", "2 Second St", "92109", 900000),
		},
	}}
	m, _ := newTestMonitor(t, f)
	_, err := m.RunCheck(context.Background())
	require.NoError(t, err)

	// next cycle: b gone, c appears, a unchanged
	f.byZip["92109"] = []listing.Listing{
		sampleListing("a", "1 First St", "92109", 800000),
		sampleListing("c", "3 Third St", "92109", 750000),
	}
	res, err := m.RunCheck(context.Background())
	require.NoError(t, err)

	require.Len(t, res.NewListings, 1)
	assert.Equal(t, "c", res.NewListings[0].ID)
	require.Len(t, res.Removed, 1)
	assert.Equal(t, "b", res.Removed[0].ID)

	// the store keeps b: removal is recent, merge never drops records
	persisted, err := m.Store.LoadListings()
	require.NoError(t, err)
	assert.Len(t, persisted, 3)
}

func TestRunCheckPublishesNewListingEvents(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {sampleListing("a", "1 First St", "92109", 800000)},
	}}
	m, _ := newTestMonitor(t, f)
	m.Pub = events.NewInMemory(4)

	_, err := m.RunCheck(context.Background())
	require.NoError(t, err)

	select {
	case evt := <-m.Pub.SubscribeNewListings():
		assert.Len(t, evt.Listings, 1)
		assert.NotEmpty(t, evt.RunID)
	default:
		t.Fatal("expected a new-listings event")
	}
}

func TestRunCheckRejectsConcurrentRuns(t *testing.T) {
	block := make(chan struct{})
	f := &scriptedFetcher{name: "rentcast", block: block, byZip: map[string][]listing.Listing{
		"92109": {sampleListing("a", "1 First St", "92109", 800000)},
	}}
	m, _ := newTestMonitor(t, f)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = m.RunCheck(context.Background())
		close(done)
	}()
	<-started
	// wait for the first run to actually be inside the cycle
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.calls > 0
	}, 2*time.Second, 10*time.Millisecond)

	_, err := m.RunCheck(context.Background())
	assert.ErrorIs(t, err, ErrCheckInProgress)

	_, err = m.StartCheck()
	assert.ErrorIs(t, err, ErrCheckInProgress)

	close(block)
	<-done

	// lock released, next run proceeds
	_, err = m.RunCheck(context.Background())
	assert.NoError(t, err)
}

type failingArchive struct{}

func (failingArchive) RecordCycle(context.Context, string, time.Time, diff.Summary, []listing.Listing) error {
	return errors.New("db down")
}

func TestRunCheckArchiveFailureIsNonFatal(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {sampleListing("a", "1 First St", "92109", 800000)},
	}}
	m, _ := newTestMonitor(t, f)
	m.Archive = failingArchive{}

	_, err := m.RunCheck(context.Background())
	assert.NoError(t, err)
}

type errNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *errNotifier) SendError(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func TestRunCheckAbortsOnCorruptStore(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {sampleListing("a", "1 First St", "92109", 800000)},
	}}
	m, dir := newTestMonitor(t, f)
	n := &errNotifier{}
	m.Notifier = n

	require.NoError(t, os.WriteFile(filepath.Join(dir, "listings.json"), []byte("{not json"), 0o644))

	_, err := m.RunCheck(context.Background())
	require.Error(t, err)

	n.mu.Lock()
	defer n.mu.Unlock()
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "failed")
}

func TestMonitorStatusTransitions(t *testing.T) {
	f := &scriptedFetcher{name: "rentcast", byZip: map[string][]listing.Listing{
		"92109": {sampleListing("a", "1 First St", "92109", 800000)},
	}}
	m, _ := newTestMonitor(t, f)

	assert.False(t, m.Status().Running)

	res, err := m.RunCheck(context.Background())
	require.NoError(t, err)

	st := m.Status()
	assert.False(t, st.Running)
	assert.Equal(t, res.RunID, st.LastRunID)
	require.NotNil(t, st.LastSummary)
	assert.Equal(t, 1, st.LastSummary.TotalCurrent)
	assert.Empty(t, st.LastError)
}
