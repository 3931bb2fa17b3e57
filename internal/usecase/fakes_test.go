package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/matching"
	"talent-match/internal/domain/opportunity"
	"talent-match/internal/domain/score"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type fakeCandidates struct {
	byID    map[uuid.UUID]candidate.Profile
	listErr error

	mu              sync.Mutex
	lastMinComplete int
}

func newFakeCandidates(ps ...candidate.Profile) *fakeCandidates {
	f := &fakeCandidates{byID: map[uuid.UUID]candidate.Profile{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeCandidates) GetCandidate(_ context.Context, id uuid.UUID) (candidate.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return candidate.Profile{}, fmt.Errorf("%w: %s", repository.ErrCandidateNotFound, id)
	}
	return p, nil
}

func (f *fakeCandidates) ListCandidates(_ context.Context, minCompleteness int) ([]candidate.Profile, error) {
	f.mu.Lock()
	f.lastMinComplete = minCompleteness
	f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]candidate.Profile, 0, len(f.byID))
	for _, p := range f.byID {
		if p.ProfileCompleteness >= minCompleteness {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeJobs struct {
	byID    map[uuid.UUID]opportunity.Opportunity
	listErr error
}

func newFakeJobs(js ...opportunity.Opportunity) *fakeJobs {
	f := &fakeJobs{byID: map[uuid.UUID]opportunity.Opportunity{}}
	for _, j := range js {
		f.byID[j.ID] = j
	}
	return f
}

func (f *fakeJobs) GetOpportunity(_ context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	j, ok := f.byID[id]
	if !ok {
		return opportunity.Opportunity{}, fmt.Errorf("%w: %s", repository.ErrOpportunityNotFound, id)
	}
	return j, nil
}

func (f *fakeJobs) ListActiveOpportunities(context.Context) ([]opportunity.Opportunity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]opportunity.Opportunity, 0, len(f.byID))
	for _, j := range f.byID {
		if j.IsActive {
			out = append(out, j)
		}
	}
	return out, nil
}

type memScores struct {
	mu        sync.Mutex
	recs      map[score.Key]score.Record
	getErr    error
	upsertErr error
	listErr   error

	gets    atomic.Int64
	upserts atomic.Int64
	lists   atomic.Int64
}

func newMemScores() *memScores {
	return &memScores{recs: map[score.Key]score.Record{}}
}

func (m *memScores) Upsert(_ context.Context, rec score.Record) error {
	m.upserts.Add(1)
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	m.recs[rec.Key()] = rec
	m.mu.Unlock()
	return nil
}

func (m *memScores) Get(_ context.Context, key score.Key) (score.Record, bool, error) {
	m.gets.Add(1)
	if m.getErr != nil {
		return score.Record{}, false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[key]
	return rec, ok, nil
}

func (m *memScores) ListByCandidate(_ context.Context, id uuid.UUID) ([]score.Record, error) {
	return m.list(func(k score.Key) bool { return k.CandidateID == id })
}

func (m *memScores) ListByJob(_ context.Context, id uuid.UUID) ([]score.Record, error) {
	return m.list(func(k score.Key) bool { return k.JobID == id })
}

func (m *memScores) list(match func(score.Key) bool) ([]score.Record, error) {
	m.lists.Add(1)
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]score.Record, 0)
	for k, r := range m.recs {
		if match(k) {
			out = append(out, r)
		}
	}
	return out, nil
}

// spyScorer counts calls to the real engine.
type spyScorer struct {
	engine *matching.Engine
	calls  atomic.Int64
}

func newSpyScorer() *spyScorer {
	return &spyScorer{engine: matching.NewEngine()}
}

func (s *spyScorer) Score(c candidate.Profile, j opportunity.Opportunity) (score.Result, error) {
	s.calls.Add(1)
	return s.engine.Score(c, j)
}

// fixedScorer returns preset overall scores per job or per candidate.
type fixedScorer struct {
	byID  map[uuid.UUID]int
	fails map[uuid.UUID]bool
}

func (s fixedScorer) Score(c candidate.Profile, j opportunity.Opportunity) (score.Result, error) {
	if s.fails[j.ID] || s.fails[c.ID] {
		return score.Result{}, fmt.Errorf("%w: boom", matching.ErrInvalidInput)
	}
	if v, ok := s.byID[j.ID]; ok {
		return score.Result{OverallScore: v}, nil
	}
	return score.Result{OverallScore: s.byID[c.ID]}, nil
}

type fakeShared struct {
	mu      sync.Mutex
	values  map[string][]byte
	locks   map[string]string
	deleted []string
	lockErr error
	gets    atomic.Int64
}

func newFakeShared() *fakeShared {
	return &fakeShared{values: map[string][]byte{}, locks: map[string]string{}}
}

func (f *fakeShared) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.gets.Add(1)
	f.mu.Lock()
	b, ok := f.values[key]
	f.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeShared) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.values[key] = b
	f.mu.Unlock()
	return nil
}

func (f *fakeShared) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeShared) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			delete(f.values, k)
		}
	}
	f.deleted = append(f.deleted, pattern)
	return nil
}

func (f *fakeShared) AcquireLock(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	if f.lockErr != nil {
		return false, f.lockErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, held := f.locks[key]; held {
		return false, nil
	}
	f.locks[key] = token
	return true, nil
}

func (f *fakeShared) ReleaseLock(_ context.Context, key, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[key] != token {
		return errors.New("lock token mismatch")
	}
	delete(f.locks, key)
	return nil
}

func (f *fakeShared) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.locks[key]
	return ok
}
