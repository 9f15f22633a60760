package emo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgsst/profesiograma-go/internal/domain"
)

type fakeSuggester struct {
	mu    sync.Mutex
	calls []Request
	fn    func(ctx context.Context, n int, req Request) (Suggestion, error)
}

func (f *fakeSuggester) SuggestJustification(ctx context.Context, req Request) (Suggestion, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	n := len(f.calls)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, n, req)
	}
	return Suggestion{
		PositionID:         req.PositionID,
		Workers:            WorkerCounts{Total: 3},
		DraftJustification: "borrador " + req.Signature(),
	}, nil
}

func (f *fakeSuggester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func request(periodicity domain.Periodicity, nd domain.Deficiency) Request {
	return Request{
		PositionID:  7,
		Periodicity: periodicity,
		Factors: []FactorInput{
			{FactorID: 3, ND: nd.Ptr(), NE: domain.ExposureFrequent.Ptr(), NC: domain.ConsequenceSerious.Ptr()},
			{FactorID: 1, ND: domain.DeficiencyMedium.Ptr()},
		},
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()
	req := request(24, domain.DeficiencyHigh)
	assert.Equal(t, "7|24|1:2::|3:6:3:25", req.Signature())

	reordered := req
	reordered.Factors = []FactorInput{req.Factors[1], req.Factors[0]}
	assert.Equal(t, req.Signature(), reordered.Signature())
	assert.Equal(t, 3, req.Factors[0].FactorID, "Signature does not reorder the caller's slice")

	assert.NotEqual(t, req.Signature(), request(36, domain.DeficiencyHigh).Signature())
	assert.NotEqual(t, req.Signature(), request(24, domain.DeficiencyVeryHigh).Signature())
}

func TestRequestFromProfile(t *testing.T) {
	t.Parallel()
	p := domain.NewPositionRiskProfile(domain.Position{ID: 7})
	p.EMOPeriodicity = 24
	p.Factors = []domain.FactorAssessment{domain.NewFactorAssessment(3, "Ruido"), domain.NewFactorAssessment(1, "Polvos")}
	req := RequestFromProfile(p)
	assert.Equal(t, 7, req.PositionID)
	assert.Equal(t, 1, req.Factors[0].FactorID)
	assert.Equal(t, "7|24|1:::|3:::", req.Signature())
}

func TestUpdateCallsOncePerSignature(t *testing.T) {
	t.Parallel()
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{})
	ctx := context.Background()

	r, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)
	assert.Equal(t, "borrador 7|24|1:2::|3:6:3:25", r.Justification)
	require.NotNil(t, r.Suggestion)
	assert.Equal(t, 3, r.Suggestion.Workers.Total)

	r, err = b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, r.Action)
	assert.Equal(t, 1, s.count())

	r, err = b.Update(ctx, request(24, domain.DeficiencyVeryHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)
	assert.Equal(t, 2, s.count())
	assert.Equal(t, r.Justification, b.Justification())
}

func TestUpdateClearsAtTwelveMonths(t *testing.T) {
	t.Parallel()
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{})
	ctx := context.Background()

	_, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	b.Edit("texto manual")
	require.True(t, b.Touched())

	r, err := b.Update(ctx, request(12, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionCleared, r.Action)
	assert.Empty(t, b.Justification())
	assert.False(t, b.Touched())

	// The remembered signature was reset, so the same inputs call again.
	r, err = b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)
	assert.Equal(t, 2, s.count())
}

type slowDeleteStore struct {
	*MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (s slowDeleteStore) Delete(ctx context.Context, key string) error {
	close(s.entered)
	<-s.release
	return s.MemoryStore.Delete(ctx, key)
}

func TestResetDoesNotWipeANewerSignature(t *testing.T) {
	t.Parallel()
	store := slowDeleteStore{MemoryStore: NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{Store: store})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = b.Update(ctx, request(12, domain.DeficiencyHigh))
	}()
	<-store.entered
	go func() {
		defer wg.Done()
		_, _ = b.Update(ctx, request(24, domain.DeficiencyHigh))
	}()
	time.Sleep(50 * time.Millisecond)
	close(store.release)
	wg.Wait()
	require.Equal(t, 1, s.count())

	r, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, r.Action)
	assert.Equal(t, 1, s.count())
}

func TestEditSuppressesSuggestions(t *testing.T) {
	t.Parallel()
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{})

	r := b.Edit("Justificación escrita por el profesional de SST")
	assert.True(t, r.Touched)

	r, err := b.Update(context.Background(), request(36, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionSuppressed, r.Action)
	assert.Equal(t, "Justificación escrita por el profesional de SST", r.Justification)
	assert.Zero(t, s.count())
}

func TestFailureLeavesTextUnchanged(t *testing.T) {
	t.Parallel()
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{})
	ctx := context.Background()
	first, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)

	s.fn = func(context.Context, int, Request) (Suggestion, error) {
		return Suggestion{}, errors.New("backend unavailable")
	}
	r, err := b.Update(ctx, request(24, domain.DeficiencyMedium))
	require.NoError(t, err)
	assert.Equal(t, ActionFailed, r.Action)
	assert.Equal(t, "backend unavailable", r.Error)
	assert.Equal(t, first.Justification, b.Justification())

	// A failed call does not record its signature; the next update retries.
	s.fn = nil
	r, err = b.Update(ctx, request(24, domain.DeficiencyMedium))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)
}

func TestStaleResultIsDropped(t *testing.T) {
	t.Parallel()
	entered := make(chan struct{})
	release := make(chan struct{})
	s := &fakeSuggester{fn: func(_ context.Context, n int, req Request) (Suggestion, error) {
		if n == 1 {
			close(entered)
			<-release
			return Suggestion{DraftJustification: "viejo"}, nil
		}
		return Suggestion{DraftJustification: "nuevo"}, nil
	}}
	b := NewBuilder(7, s, BuilderConfig{})
	ctx := context.Background()

	done := make(chan Result, 1)
	go func() {
		r, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
		assert.NoError(t, err)
		done <- r
	}()
	<-entered

	r, err := b.Update(ctx, request(36, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)

	close(release)
	stale := <-done
	assert.Equal(t, ActionSuperseded, stale.Action)
	assert.Equal(t, "nuevo", b.Justification())
}

func TestEditSupersedesInFlightCall(t *testing.T) {
	t.Parallel()
	entered := make(chan struct{})
	s := &fakeSuggester{fn: func(ctx context.Context, _ int, _ Request) (Suggestion, error) {
		close(entered)
		<-ctx.Done()
		return Suggestion{}, ctx.Err()
	}}
	b := NewBuilder(7, s, BuilderConfig{})

	done := make(chan Result, 1)
	go func() {
		r, err := b.Update(context.Background(), request(24, domain.DeficiencyHigh))
		assert.NoError(t, err)
		done <- r
	}()
	<-entered
	b.Edit("manual")

	r := <-done
	assert.Equal(t, ActionSuperseded, r.Action)
	assert.Equal(t, "manual", b.Justification())
}

func TestDebounceCollapsesBursts(t *testing.T) {
	t.Parallel()
	s := &fakeSuggester{}
	b := NewBuilder(7, s, BuilderConfig{Debounce: 200 * time.Millisecond})
	ctx := context.Background()

	done := make(chan Result, 1)
	go func() {
		r, err := b.Update(ctx, request(24, domain.DeficiencyMedium))
		assert.NoError(t, err)
		done <- r
	}()
	time.Sleep(50 * time.Millisecond)

	r, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionDrafted, r.Action)
	assert.Equal(t, ActionSuperseded, (<-done).Action)
	assert.Equal(t, 1, s.count())
	assert.Equal(t, domain.DeficiencyHigh, *s.calls[0].Factors[1].ND)
}

func TestCallerCancellationIsReturned(t *testing.T) {
	t.Parallel()
	b := NewBuilder(7, &fakeSuggester{}, BuilderConfig{Debounce: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Update(ctx, request(24, domain.DeficiencyHigh))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStoreSharesDraftsAcrossBuilders(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "", time.Hour)
	s := &fakeSuggester{}
	ctx := context.Background()

	first := NewBuilder(7, s, BuilderConfig{Store: store})
	r, err := first.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	require.Equal(t, ActionDrafted, r.Action)
	assert.Equal(t, r.Signature, mr.HGet("profesiograma:emo:7", "signature"))
	assert.Equal(t, time.Hour, mr.TTL("profesiograma:emo:7"))

	second := NewBuilder(7, s, BuilderConfig{Store: store})
	r2, err := second.Update(ctx, request(24, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, r2.Action)
	assert.Equal(t, r.Justification, r2.Justification)
	assert.Equal(t, 1, s.count())

	_, err = second.Update(ctx, request(6, domain.DeficiencyHigh))
	require.NoError(t, err)
	assert.False(t, mr.Exists("profesiograma:emo:7"))
}

func TestRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	_, ok, err := NewRedisStore(client, "x:", 0).Load(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessions(t *testing.T) {
	t.Parallel()
	ss := NewSessions(&fakeSuggester{}, BuilderConfig{})
	a := ss.For(1)
	assert.Same(t, a, ss.For(1))
	assert.NotSame(t, a, ss.For(2))
	ss.Close(1)
	assert.NotSame(t, a, ss.For(1))

	_, ok := ss.Peek(3)
	assert.False(t, ok)
	assert.Equal(t, 2, ss.Len(), "Peek does not open a session")
	b, ok := ss.Peek(2)
	require.True(t, ok)
	assert.Same(t, ss.For(2), b)
}

func TestSessionCloseCancelsInFlightCall(t *testing.T) {
	t.Parallel()
	entered := make(chan struct{})
	causes := make(chan error, 1)
	s := &fakeSuggester{fn: func(ctx context.Context, _ int, _ Request) (Suggestion, error) {
		close(entered)
		<-ctx.Done()
		causes <- context.Cause(ctx)
		return Suggestion{}, ctx.Err()
	}}
	ss := NewSessions(s, BuilderConfig{})
	b := ss.For(7)

	done := make(chan Result, 1)
	go func() {
		r, err := b.Update(context.Background(), request(24, domain.DeficiencyHigh))
		assert.NoError(t, err)
		done <- r
	}()
	<-entered
	ss.Close(7)

	select {
	case r := <-done:
		assert.Equal(t, ActionSuperseded, r.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight call was not cancelled by Close")
	}
	assert.ErrorIs(t, <-causes, ErrSuperseded)
	assert.Empty(t, b.Justification())
	assert.Zero(t, ss.Len())
}

func TestSharedSuggesterCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	inner := &fakeSuggester{fn: func(context.Context, int, Request) (Suggestion, error) {
		<-release
		return Suggestion{DraftJustification: "compartido"}, nil
	}}
	shared := NewSharedSuggester(inner, time.Second)
	req := request(24, domain.DeficiencyHigh)

	var wg sync.WaitGroup
	results := make([]Suggestion, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := shared.SuggestJustification(context.Background(), req)
			assert.NoError(t, err)
			results[i] = s
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, inner.count())
	assert.Equal(t, "compartido", results[0].DraftJustification)
	assert.Equal(t, "compartido", results[1].DraftJustification)
}

func TestSharedSuggesterCallerCancel(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	inner := &fakeSuggester{fn: func(ctx context.Context, _ int, _ Request) (Suggestion, error) {
		select {
		case <-release:
			return Suggestion{DraftJustification: "ok"}, nil
		case <-ctx.Done():
			return Suggestion{}, ctx.Err()
		}
	}}
	shared := NewSharedSuggester(inner, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := shared.SuggestJustification(ctx, request(24, domain.DeficiencyHigh))
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}
