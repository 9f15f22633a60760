package emo

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// SharedSuggester collapses concurrent requests with the same signature into
// a single call to the wrapped Suggester. The shared call is detached from
// any one caller's cancellation and bounded by Timeout instead.
type SharedSuggester struct {
	next    Suggester
	timeout time.Duration
	group   singleflight.Group
}

// NewSharedSuggester wraps next. A non-positive timeout uses 30s.
func NewSharedSuggester(next Suggester, timeout time.Duration) *SharedSuggester {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SharedSuggester{next: next, timeout: timeout}
}

func (s *SharedSuggester) SuggestJustification(ctx context.Context, req Request) (Suggestion, error) {
	ch := s.group.DoChan(req.Signature(), func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.next.SuggestJustification(cctx, req)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return Suggestion{}, r.Err
		}
		return r.Val.(Suggestion), nil
	case <-ctx.Done():
		return Suggestion{}, ctx.Err()
	}
}
