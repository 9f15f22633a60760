package ratelimit

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrBudgetExceeded is returned when a position used up its budget.
var ErrBudgetExceeded = errors.New("activity budget exceeded")

// ActivityBudget tracks per-position activity call counts within time windows.
type ActivityBudget struct {
	mu     sync.Mutex
	counts map[string]*windowCounter

	maxPerWindow int
	windowSize   time.Duration
	now          func() time.Time
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

// NewActivityBudget creates a budget limiter.
// maxPerWindow limits calls per (position, activity) within windowSize.
func NewActivityBudget(maxPerWindow int, windowSize time.Duration) *ActivityBudget {
	return &ActivityBudget{
		counts:       make(map[string]*windowCounter),
		maxPerWindow: maxPerWindow,
		windowSize:   windowSize,
		now:          time.Now,
	}
}

// PositionKey is the budget key of a position.
func PositionKey(positionID int) string {
	return "position-" + strconv.Itoa(positionID)
}

func budgetKey(position, activity string) string {
	return position + "|" + activity
}

// Check returns an error wrapping ErrBudgetExceeded if the position has
// used up the budget for the activity.
func (b *ActivityBudget) Check(position, activity string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkLocked(position, activity)
}

func (b *ActivityBudget) checkLocked(position, activity string) error {
	wc, ok := b.counts[budgetKey(position, activity)]
	if !ok || b.now().After(wc.windowEnd) {
		return nil // no window or expired window
	}
	if wc.count >= b.maxPerWindow {
		return fmt.Errorf("%w: %s activity %s (%d/%d in window)",
			ErrBudgetExceeded, position, activity, wc.count, b.maxPerWindow)
	}
	return nil
}

// Record records an activity call for the position.
func (b *ActivityBudget) Record(position, activity string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recordLocked(position, activity)
}

func (b *ActivityBudget) recordLocked(position, activity string) {
	key := budgetKey(position, activity)
	wc, ok := b.counts[key]
	if !ok || b.now().After(wc.windowEnd) {
		b.counts[key] = &windowCounter{
			count:     1,
			windowEnd: b.now().Add(b.windowSize),
		}
		return
	}
	wc.count++
}

// Allow checks and records in one step.
func (b *ActivityBudget) Allow(position, activity string) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkLocked(position, activity); err != nil {
		return err
	}
	b.recordLocked(position, activity)
	return nil
}
