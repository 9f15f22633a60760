package emo

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ErrSuperseded is the cancellation cause of a suggestion call made obsolete
// by newer inputs or a manual edit.
var ErrSuperseded = errors.New("emo: superseded by newer inputs")

// Action reports what an Update did.
type Action string

const (
	ActionCleared    Action = "cleared"    // periodicity of 12 months or less
	ActionSuppressed Action = "suppressed" // operator edited the text
	ActionSkipped    Action = "skipped"    // signature unchanged
	ActionDrafted    Action = "drafted"
	ActionSuperseded Action = "superseded"
	ActionFailed     Action = "failed"
)

// Result is the state of the session after an Update.
type Result struct {
	Action        Action      `json:"action"`
	Signature     string      `json:"signature,omitempty"`
	Justification string      `json:"justification"`
	Touched       bool        `json:"touched"`
	Suggestion    *Suggestion `json:"suggestion,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// BuilderConfig tunes a Builder. A zero Debounce calls immediately; a zero
// Timeout takes DefaultTimeout.
type BuilderConfig struct {
	Debounce time.Duration
	Timeout  time.Duration
	Store    SignatureStore
	Logger   *slog.Logger
}

const (
	DefaultDebounce = 400 * time.Millisecond
	DefaultTimeout  = 15 * time.Second
)

// Builder drafts the periodicity justification of one position.
type Builder struct {
	suggester Suggester
	key       string
	debounce  time.Duration
	timeout   time.Duration
	store     SignatureStore
	logger    *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelCauseFunc
	touched bool
	text    string
	last    *Suggestion
}

// NewBuilder returns a builder for positionID.
func NewBuilder(positionID int, s Suggester, cfg BuilderConfig) *Builder {
	b := &Builder{
		suggester: s,
		key:       strconv.Itoa(positionID),
		debounce:  cfg.Debounce,
		timeout:   cfg.Timeout,
		store:     cfg.Store,
		logger:    cfg.Logger,
	}
	if b.debounce < 0 {
		b.debounce = 0
	}
	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	if b.store == nil {
		b.store = NewMemoryStore()
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("position_id", positionID)
	return b
}

// Update reacts to a change of periodicity or factor levels.
//
// At 12 months or less the draft is cleared and the touched flag reset. Once
// the operator has edited the text nothing is requested. Otherwise the
// suggestion service is called after the debounce, unless the signature
// matches the last successful call. A call made obsolete by a later Update or
// Edit is dropped. A failed call leaves the text as it was.
func (b *Builder) Update(ctx context.Context, req Request) (Result, error) {
	req = req.Sorted()

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.abortLocked()

	if !req.Periodicity.RequiresJustification() {
		defer b.mu.Unlock()
		b.touched = false
		b.text = ""
		b.last = nil
		// Deleted under the lock so a newer Update cannot store its
		// signature before the reset lands.
		if err := b.store.Delete(ctx, b.key); err != nil {
			b.logger.Warn("emo draft reset failed", "error", err)
		}
		return Result{Action: ActionCleared}, nil
	}
	if b.touched {
		defer b.mu.Unlock()
		return b.resultLocked(ActionSuppressed, ""), nil
	}
	cctx, cancel := context.WithCancelCause(ctx)
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel(nil)

	sig := req.Signature()
	prev, found, err := b.store.Load(cctx, b.key)
	if err != nil {
		b.logger.Warn("emo draft lookup failed", "error", err)
		found = false
	}
	if found && prev.Signature == sig {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen != gen {
			return b.resultLocked(ActionSuperseded, sig), nil
		}
		if b.text == "" {
			b.text = prev.Justification
		}
		return b.resultLocked(ActionSkipped, sig), nil
	}

	if err := b.wait(cctx); err != nil {
		return b.interrupted(cctx, sig)
	}

	tctx, tcancel := context.WithTimeout(cctx, b.timeout)
	defer tcancel()
	sug, err := b.suggester.SuggestJustification(tctx, req)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		b.logger.Debug("emo suggestion dropped", "signature", sig)
		return b.resultLocked(ActionSuperseded, sig), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		b.logger.Warn("emo suggestion failed", "signature", sig, "error", err)
		r := b.resultLocked(ActionFailed, sig)
		r.Error = err.Error()
		return r, nil
	}
	b.text = sug.DraftJustification
	b.last = &sug
	if err := b.store.Save(ctx, b.key, Draft{Signature: sig, Justification: b.text}); err != nil {
		b.logger.Warn("emo draft store failed", "signature", sig, "error", err)
	}
	b.logger.Info("emo justification drafted", "signature", sig, "workers", sug.Workers.Total)
	return b.resultLocked(ActionDrafted, sig), nil
}

// Edit records a manual change to the text. From now on Update no longer
// overwrites it until the periodicity drops to 12 months or less.
func (b *Builder) Edit(text string) Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.abortLocked()
	b.touched = true
	b.text = text
	return b.resultLocked(ActionSuppressed, "")
}

// Justification returns the current text.
func (b *Builder) Justification() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Touched reports whether the operator edited the text.
func (b *Builder) Touched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched
}

// LastSuggestion returns the most recent accepted suggestion.
func (b *Builder) LastSuggestion() (Suggestion, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return Suggestion{}, false
	}
	return *b.last, true
}

// close supersedes any in-flight call; its result is dropped.
func (b *Builder) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.abortLocked()
}

func (b *Builder) abortLocked() {
	if b.cancel != nil {
		b.cancel(ErrSuperseded)
		b.cancel = nil
	}
}

func (b *Builder) resultLocked(a Action, sig string) Result {
	r := Result{Action: a, Signature: sig, Justification: b.text, Touched: b.touched}
	if b.last != nil {
		s := *b.last
		r.Suggestion = &s
	}
	return r
}

func (b *Builder) wait(ctx context.Context) error {
	if b.debounce == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.debounce)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Builder) interrupted(ctx context.Context, sig string) (Result, error) {
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.resultLocked(ActionSuperseded, sig), nil
	}
	return Result{}, ctx.Err()
}
