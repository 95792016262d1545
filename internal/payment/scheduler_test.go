package payment

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerPeriodicRunsUntilCancelled(t *testing.T) {
	s := NewScheduler()
	var ticks int64
	s.StartPeriodic(10*time.Millisecond, func() { atomic.AddInt64(&ticks, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt64(&ticks) >= 3 }, time.Second, 5*time.Millisecond)

	s.CancelAll()
	after := atomic.LoadInt64(&ticks)
	time.Sleep(60 * time.Millisecond)
	require.LessOrEqual(t, atomic.LoadInt64(&ticks)-after, int64(1), "at most one in-flight tick after CancelAll")
}

func TestSchedulerOnceFiresOnce(t *testing.T) {
	s := NewScheduler()
	var fired int64
	s.StartOnce(10*time.Millisecond, func() { atomic.AddInt64(&fired, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt64(&fired) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestSchedulerCancelBeforeDelay(t *testing.T) {
	s := NewScheduler()
	var fired int64
	s.StartOnce(30*time.Millisecond, func() { atomic.AddInt64(&fired, 1) })
	s.CancelAll()

	time.Sleep(80 * time.Millisecond)
	require.Zero(t, atomic.LoadInt64(&fired), "cancelled one-shot must not run")
}

func TestSchedulerCancelStopsBothSchedules(t *testing.T) {
	s := NewScheduler()
	var periodic, once int64
	s.StartPeriodic(10*time.Millisecond, func() { atomic.AddInt64(&periodic, 1) })
	s.StartOnce(50*time.Millisecond, func() { atomic.AddInt64(&once, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt64(&periodic) >= 1 }, time.Second, 5*time.Millisecond)
	s.CancelAll()

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, atomic.LoadInt64(&once), "one-shot armed alongside the periodic must die with it")
}

func TestSchedulerUsableAfterCancel(t *testing.T) {
	s := NewScheduler()
	s.StartPeriodic(5*time.Millisecond, func() {})
	s.CancelAll()

	var fired int64
	s.StartOnce(10*time.Millisecond, func() { atomic.AddInt64(&fired, 1) })
	require.Eventually(t, func() bool { return atomic.LoadInt64(&fired) == 1 }, time.Second, 5*time.Millisecond)
}
