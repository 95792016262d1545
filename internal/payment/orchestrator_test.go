package payment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chopwell/pkg/momo"
)

type fakeGateway struct {
	collectFn   func(req momo.CollectRequest) (*momo.CollectResult, error)
	statusFn    func(reference string) (momo.Status, error)
	collectHits int64
	statusHits  int64
}

func (f *fakeGateway) Collect(_ context.Context, req momo.CollectRequest) (*momo.CollectResult, error) {
	atomic.AddInt64(&f.collectHits, 1)
	return f.collectFn(req)
}

func (f *fakeGateway) CheckStatus(_ context.Context, reference string) (momo.Status, error) {
	atomic.AddInt64(&f.statusHits, 1)
	return f.statusFn(reference)
}

func (f *fakeGateway) statusCalls() int64 { return atomic.LoadInt64(&f.statusHits) }

type recordingHooks struct {
	mu        sync.Mutex
	succeeded []string
	failed    []FailureReason
}

func (h *recordingHooks) PaymentSucceeded(orderRef string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.succeeded = append(h.succeeded, orderRef)
}

func (h *recordingHooks) PaymentFailed(_ string, reason FailureReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed = append(h.failed, reason)
}

func (h *recordingHooks) terminalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.succeeded) + len(h.failed)
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (s *recordingSink) Publish(_ uint, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
}

func (s *recordingSink) sawState(st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snaps {
		if snap.State == st {
			return true
		}
	}
	return false
}

func (s *recordingSink) terminalSnaps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, snap := range s.snaps {
		if snap.State.Terminal() {
			n++
		}
	}
	return n
}

var testTimings = Timings{
	UssdGrace:    5 * time.Millisecond,
	PollInterval: 15 * time.Millisecond,
	Deadline:     300 * time.Millisecond,
}

func newTestOrchestrator(gw *fakeGateway, timings Timings) (*Orchestrator, *recordingHooks, *recordingSink) {
	hooks := &recordingHooks{}
	sink := &recordingSink{}
	sess := NewSession("cw-test", 1, 5000, 150)
	return NewOrchestrator(sess, gw, hooks, sink, timings), hooks, sink
}

func mtnSelection() MethodSelection {
	return MethodSelection{
		Provider:   momo.ProviderMTN,
		Phone:      "670000000",
		PayerName:  "Ama Njoya",
		PayerEmail: "ama@example.com",
	}
}

func waitState(t *testing.T, o *Orchestrator, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return o.Snapshot().State == want },
		2*time.Second, 2*time.Millisecond, "expected state %s, last %s", want, o.Snapshot().State)
}

func TestCompletedOnFirstTick(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx123", UssdCode: "*126#"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusCompleted, nil },
	}
	o, hooks, sink := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateSucceeded)

	require.True(t, sink.sawState(StateDisplayingUssd), "ussd code present, must pass through DisplayingUssd")
	require.Equal(t, []string{"cw-test"}, hooks.succeeded)
	require.Empty(t, hooks.failed)

	// Scheduler fully cancelled: no further status checks.
	settled := gw.statusCalls()
	time.Sleep(5 * testTimings.PollInterval)
	require.Equal(t, settled, gw.statusCalls())
}

func TestInvalidPhoneMakesNoNetworkCall(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			t.Fatal("collect must not be called for an invalid phone")
			return nil, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	err := o.SelectMethod(context.Background(), MethodSelection{Provider: momo.ProviderMTN, Phone: "12345"})
	require.ErrorIs(t, err, ErrInvalidPhone)

	snap := o.Snapshot()
	require.Equal(t, StateMethodSelection, snap.State)
	require.Equal(t, ReasonValidation, snap.Reason)
	require.Zero(t, hooks.terminalCount())
	require.Zero(t, gw.statusCalls())
}

func TestDeadlineResolvesTimeoutWhenStillPending(t *testing.T) {
	timings := Timings{UssdGrace: 5 * time.Millisecond, PollInterval: 20 * time.Millisecond, Deadline: 120 * time.Millisecond}
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-slow"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, hooks, sink := newTestOrchestrator(gw, timings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateFailed)

	require.True(t, sink.sawState(StateVerifying), "deadline path must pass through Verifying")
	require.Equal(t, []FailureReason{ReasonTimeout}, hooks.failed)
	require.Empty(t, hooks.succeeded)

	// The final check was the last one; nothing fires afterwards.
	settled := gw.statusCalls()
	time.Sleep(5 * timings.PollInterval)
	require.Equal(t, settled, gw.statusCalls())
}

func TestGatewayFailedStopsEverything(t *testing.T) {
	var calls int64
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-fail"}, nil
		},
		statusFn: func(string) (momo.Status, error) {
			if atomic.AddInt64(&calls, 1) >= 2 {
				return momo.StatusFailed, nil
			}
			return momo.StatusPending, nil
		},
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateFailed)

	require.Equal(t, []FailureReason{ReasonGatewayFailed}, hooks.failed)
	snap := o.Snapshot()
	require.Equal(t, ReasonGatewayFailed, snap.Reason)

	settled := gw.statusCalls()
	time.Sleep(5 * testTimings.PollInterval)
	require.Equal(t, settled, gw.statusCalls(), "both schedules cancelled at the failing tick")
}

func TestCancelDuringPolling(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-cancel"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StatePolling)

	o.Cancel()
	settled := gw.statusCalls()
	time.Sleep(5 * testTimings.PollInterval)
	require.LessOrEqual(t, gw.statusCalls()-settled, int64(1), "at most one in-flight check after cancel")
	require.Zero(t, hooks.terminalCount(), "no terminal result is ever emitted for a cancelled attempt")
	require.False(t, o.Snapshot().State.Terminal())
}

func TestTransientPollErrorIsAbsorbed(t *testing.T) {
	var calls int64
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-flaky"}, nil
		},
		statusFn: func(string) (momo.Status, error) {
			switch atomic.AddInt64(&calls, 1) {
			case 1:
				return momo.StatusUnknown, errors.New("connection reset")
			case 2:
				return momo.StatusUnknown, nil // unrecognized body, also transient
			default:
				return momo.StatusCompleted, nil
			}
		},
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateSucceeded)
	require.Equal(t, 1, hooks.terminalCount())
}

func TestInitiationNetworkErrorFails(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return nil, errors.New("dial tcp: i/o timeout")
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateFailed)
	require.Equal(t, []FailureReason{ReasonNetwork}, hooks.failed)
	require.Zero(t, gw.statusCalls(), "no polling is armed when initiation fails")
}

func TestNoUssdCodeSkipsDisplayState(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-noussd"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, _, sink := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StatePolling)
	require.False(t, sink.sawState(StateDisplayingUssd))
	o.Cancel()
}

func TestExactlyOneTerminalResolution(t *testing.T) {
	// Deadline and poll interval almost coincide so the periodic tick and
	// the deadline check race to resolve; exactly one may win.
	timings := Timings{UssdGrace: 2 * time.Millisecond, PollInterval: 10 * time.Millisecond, Deadline: 13 * time.Millisecond}
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-race"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusCompleted, nil },
	}
	o, hooks, sink := newTestOrchestrator(gw, timings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateSucceeded)

	time.Sleep(5 * timings.PollInterval) // let any straggler land
	require.Equal(t, 1, hooks.terminalCount(), "no observable double-resolution")
	require.Equal(t, 1, sink.terminalSnaps())
}

func TestRetryStartsFreshAttempt(t *testing.T) {
	var collects int64
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			if atomic.AddInt64(&collects, 1) == 1 {
				return &momo.CollectResult{Success: true, Reference: "tx-first"}, nil
			}
			return &momo.CollectResult{Success: true, Reference: "tx-second"}, nil
		},
		statusFn: func(ref string) (momo.Status, error) {
			if ref == "tx-first" {
				return momo.StatusFailed, nil
			}
			return momo.StatusCompleted, nil
		},
	}
	o, hooks, _ := newTestOrchestrator(gw, testTimings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateFailed)
	require.Error(t, o.SelectMethod(context.Background(), mtnSelection()), "initiation is not allowed from Failed")

	require.NoError(t, o.Retry())
	snap := o.Snapshot()
	require.Equal(t, StateMethodSelection, snap.State)
	require.Equal(t, 2, snap.AttemptCount)
	require.Equal(t, ReasonNone, snap.Reason)
	require.Empty(t, snap.UssdCode)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateSucceeded)
	require.Equal(t, []string{"cw-test"}, hooks.succeeded)
	require.Equal(t, []FailureReason{ReasonGatewayFailed}, hooks.failed)
}

func TestRetryOnlyFromFailed(t *testing.T) {
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-live"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusPending, nil },
	}
	o, _, _ := newTestOrchestrator(gw, testTimings)

	require.ErrorIs(t, o.Retry(), ErrBadState, "retry before any attempt")
	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StatePolling)
	require.ErrorIs(t, o.Retry(), ErrBadState, "retry mid-flight")
	o.Cancel()
}

func TestDeadlineFinalCheckCanStillSucceed(t *testing.T) {
	timings := Timings{UssdGrace: 2 * time.Millisecond, PollInterval: 200 * time.Millisecond, Deadline: 30 * time.Millisecond}
	gw := &fakeGateway{
		collectFn: func(momo.CollectRequest) (*momo.CollectResult, error) {
			return &momo.CollectResult{Success: true, Reference: "tx-late"}, nil
		},
		statusFn: func(string) (momo.Status, error) { return momo.StatusCompleted, nil },
	}
	o, hooks, sink := newTestOrchestrator(gw, timings)

	require.NoError(t, o.SelectMethod(context.Background(), mtnSelection()))
	waitState(t, o, StateSucceeded)
	require.True(t, sink.sawState(StateVerifying))
	require.Equal(t, []string{"cw-test"}, hooks.succeeded)
}
