package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestManual_FiresInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string

	m.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	m.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	m.AfterFunc(2*time.Second, func() { got = append(got, "b") })

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, epoch.Add(2*time.Second), m.Now())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_NowDuringCallbackIsDeadline(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.AfterFunc(5*time.Second, func() { at = m.Now() })

	m.Advance(time.Minute)
	assert.Equal(t, epoch.Add(5*time.Second), at)
	assert.Equal(t, epoch.Add(time.Minute), m.Now())
}

func TestManual_CallbackArmsTimerWithinSameAdvance(t *testing.T) {
	m := NewManual(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 5 {
			m.AfterFunc(time.Second, tick)
		}
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(10 * time.Second)
	assert.Equal(t, 5, ticks)
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	m.Advance(time.Hour)
	assert.False(t, fired)
}

func TestManual_SetBackwardsIgnored(t *testing.T) {
	m := NewManual(epoch)
	m.Set(epoch.Add(-time.Hour))
	assert.Equal(t, epoch, m.Now())
}
