package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIndicatorCapsBelowComplete(t *testing.T) {
	p := NewIndicatorWithSchedule(10, time.Millisecond, 90)
	p.Start()
	defer p.Reset()

	assert.Eventually(t, func() bool { return p.Percent() == 90 }, time.Second, time.Millisecond)

	// keep ticking well past the point where 100 would be reached
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 90, p.Percent())
	assert.False(t, p.Finished())
	assert.True(t, p.Active())
}

func TestIndicatorFinishReportsCompleteOnce(t *testing.T) {
	p := NewIndicatorWithSchedule(10, time.Millisecond, 90)
	p.Start()

	assert.True(t, p.Finish())
	assert.Equal(t, Complete, p.Percent())
	assert.False(t, p.Finish())
	assert.Equal(t, Complete, p.Percent())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, Complete, p.Percent(), "timer must not move the bar after Finish")
	assert.False(t, p.Active())
}

func TestIndicatorFinishBeforeFirstTick(t *testing.T) {
	p := NewIndicatorWithSchedule(10, time.Hour, 90)
	p.Start()
	assert.Equal(t, 0, p.Percent())

	assert.True(t, p.Finish())
	assert.Equal(t, Complete, p.Percent())
}

func TestIndicatorResetAndRestart(t *testing.T) {
	p := NewIndicatorWithSchedule(50, time.Millisecond, 90)
	p.Start()
	p.Finish()

	p.Reset()
	assert.Equal(t, 0, p.Percent())
	assert.False(t, p.Finished())

	p.Start()
	assert.Eventually(t, func() bool { return p.Percent() == 90 }, time.Second, time.Millisecond)
	assert.True(t, p.Finish())
}

func TestNewIndicatorWithScheduleClampsCeiling(t *testing.T) {
	p := NewIndicatorWithSchedule(0, 0, 100)
	assert.Equal(t, DefaultStep, p.step)
	assert.Equal(t, DefaultInterval, p.interval)
	assert.Equal(t, DefaultCeiling, p.ceiling)
}
