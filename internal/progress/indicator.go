// Package progress implements the cosmetic progress bar shown while a result
// document is being uploaded. It advances on a timer but never reports
// completion until the upload response has actually arrived.
package progress

import (
	"sync"
	"time"
)

const (
	DefaultStep     = 10
	DefaultInterval = 200 * time.Millisecond
	DefaultCeiling  = 90
	Complete        = 100
)

// Indicator is a timer-driven percentage capped below 100 until Finish
type Indicator struct {
	mu       sync.Mutex
	percent  int
	step     int
	interval time.Duration
	ceiling  int
	running  bool
	finished bool
	stop     chan struct{}
}

// NewIndicator creates an indicator that advances 10% every 200ms up to 90%
func NewIndicator() *Indicator {
	return NewIndicatorWithSchedule(DefaultStep, DefaultInterval, DefaultCeiling)
}

// NewIndicatorWithSchedule creates an indicator with a custom schedule. The
// ceiling is clamped below Complete.
func NewIndicatorWithSchedule(step int, interval time.Duration, ceiling int) *Indicator {
	if step <= 0 {
		step = DefaultStep
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if ceiling <= 0 || ceiling >= Complete {
		ceiling = DefaultCeiling
	}
	return &Indicator{step: step, interval: interval, ceiling: ceiling}
}

// Start resets the bar to 0 and begins advancing it. Calling Start while
// already running does nothing.
func (p *Indicator) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.percent = 0
	p.finished = false
	p.running = true
	p.stop = make(chan struct{})
	go p.advance(p.stop)
}

func (p *Indicator) advance(stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if !p.running {
				p.mu.Unlock()
				return
			}
			p.percent += p.step
			if p.percent >= p.ceiling {
				p.percent = p.ceiling
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
		}
	}
}

// Finish stops the timer and drives the bar to 100. It returns false if the
// indicator was already finished, so completion is reported exactly once.
func (p *Indicator) Finish() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return false
	}
	p.halt()
	p.finished = true
	p.percent = Complete
	return true
}

// Reset stops the timer and clears the bar
func (p *Indicator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.halt()
	p.finished = false
	p.percent = 0
}

// halt stops the advancing goroutine; callers hold p.mu
func (p *Indicator) halt() {
	if p.running {
		close(p.stop)
		p.running = false
	}
}

// Percent returns the current percentage
func (p *Indicator) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent
}

// Active reports whether an upload is in progress
func (p *Indicator) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running || (p.percent > 0 && !p.finished)
}

// Finished reports whether Finish has been called since the last Start
func (p *Indicator) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished
}
