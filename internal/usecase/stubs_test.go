package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/livescore"
	"github.com/riskibarqy/sports-mirror/internal/domain/mirror"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
	"github.com/riskibarqy/sports-mirror/internal/domain/syncstate"
)

var errProviderDown = errors.New("provider returned 503")

func entities(prefix string, from, to int) []mirror.Record {
	out := make([]mirror.Record, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, catalog.Entity{ID: fmt.Sprintf("%s%d", prefix, i), Name: fmt.Sprintf("Team %d", i)})
	}
	return out
}

type pageResponse struct {
	page mirror.Page
	err  error
}

// stubFetcher serves scripted pages; unscripted pages are empty.
type stubFetcher struct {
	mu        sync.Mutex
	pages     map[int]pageResponse
	fallback  *pageResponse
	since     pageResponse
	calls     []int
	sinceArgs []time.Time
	block     chan struct{}
	entered   chan struct{}
	enterOnce sync.Once
}

func (f *stubFetcher) FetchPage(ctx context.Context, _ resource.Descriptor, page int) (mirror.Page, error) {
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return mirror.Page{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if resp, ok := f.pages[page]; ok {
		return resp.page, resp.err
	}
	if f.fallback != nil {
		return f.fallback.page, f.fallback.err
	}
	return mirror.Page{}, nil
}

func (f *stubFetcher) FetchSince(_ context.Context, _ resource.Descriptor, since time.Time) (mirror.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinceArgs = append(f.sinceArgs, since)
	return f.since.page, f.since.err
}

type memCollection struct {
	mu      sync.Mutex
	records map[string]mirror.Record
	saves   int
	cleared int
	failIDs map[string]error
}

func newMemCollection(seed ...mirror.Record) *memCollection {
	c := &memCollection{records: make(map[string]mirror.Record)}
	for _, r := range seed {
		c.records[r.NaturalID()] = r
	}
	return c
}

func (c *memCollection) Count(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.records)), nil
}

func (c *memCollection) Save(_ context.Context, record mirror.Record) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.failIDs[record.NaturalID()]; ok {
		return false, err
	}
	c.saves++
	_, exists := c.records[record.NaturalID()]
	c.records[record.NaturalID()] = record
	return !exists, nil
}

func (c *memCollection) Clear(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.records))
	c.records = make(map[string]mirror.Record)
	c.cleared++
	return n, nil
}

type memCollections map[resource.Name]Collection

func (m memCollections) Collection(name resource.Name) (Collection, bool) {
	c, ok := m[name]
	return c, ok
}

type memStates struct {
	mu      sync.Mutex
	states  map[string]syncstate.State
	saveErr error
}

func newMemStates() *memStates {
	return &memStates{states: make(map[string]syncstate.State)}
}

func (m *memStates) Get(_ context.Context, name string) (syncstate.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[name]; ok {
		return st, nil
	}
	return syncstate.Initial(name), nil
}

func (m *memStates) Save(_ context.Context, st syncstate.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[st.Resource] = st
	return nil
}

func (m *memStates) List(context.Context) ([]syncstate.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]syncstate.State, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out, nil
}

type enqueued struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []enqueued
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, enqueued{path: path, payload: payload, delay: delay, dedupID: dedupID})
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SyncEvent
}

func (p *recordingPublisher) PublishSyncCompleted(_ context.Context, event SyncEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type memLiveStore struct {
	mu    sync.Mutex
	items map[string]livescore.Snapshot
}

func newMemLiveStore(snaps ...livescore.Snapshot) *memLiveStore {
	s := &memLiveStore{items: make(map[string]livescore.Snapshot)}
	s.PutMany(context.Background(), snaps)
	return s
}

func (s *memLiveStore) Get(_ context.Context, id string) (livescore.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.items[id]
	return snap, ok
}

func (s *memLiveStore) PutMany(_ context.Context, snaps []livescore.Snapshot) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snaps {
		s.items[snap.MatchID] = snap
	}
	return len(snaps)
}

func testDescriptor(name resource.Name, refresh resource.RefreshPolicy) resource.Descriptor {
	return resource.Descriptor{
		Name:     name,
		Kind:     resource.KindEntity,
		Endpoint: string(name) + "/list",
		Refresh:  refresh,
		Interval: time.Minute,
		Enabled:  true,
		PageSize: 1000,
	}
}
