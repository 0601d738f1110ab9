package mcts

import (
	"time"
)

// movetimer measures a search, the budget is only enforced when it's set
type movetimer struct {
	start  time.Time
	budget time.Duration
	set    bool
}

func newMovetimer() *movetimer {
	return &movetimer{start: time.Now()}
}

// Budget in milliseconds, negative one disables the timer
func (t *movetimer) setBudget(ms int) {
	t.set = ms >= 0
	t.budget = time.Duration(max(ms, 0)) * time.Millisecond
}

func (t *movetimer) restart() {
	t.start = time.Now()
}

func (t *movetimer) expired() bool {
	return t.set && time.Since(t.start) >= t.budget
}

// Elapsed milliseconds, at least 1 so it can be divided by
func (t *movetimer) elapsedMs() int {
	return max(int(time.Since(t.start).Milliseconds()), 1)
}
