package payment

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"chopwell/pkg/momo"
)

var (
	ErrBadState     = errors.New("action not allowed in current state")
	ErrInvalidPhone = errors.New("phone number not valid for selected provider")
)

// Hooks are the order/cart collaborators notified on terminal resolution.
type Hooks interface {
	PaymentSucceeded(orderRef string)
	PaymentFailed(orderRef string, reason FailureReason)
}

// Sink receives a state snapshot on every transition (the presentation
// adapter: websocket push, status endpoint cache).
type Sink interface {
	Publish(userID uint, snap Snapshot)
}

// Timings for one attempt. Production values come from config; tests use
// millisecond values.
type Timings struct {
	UssdGrace    time.Duration
	PollInterval time.Duration
	Deadline     time.Duration
}

// Orchestrator drives one payment session from method selection to a
// terminal state. Every event — gateway response, scheduler tick, deadline
// fire, user action — is applied under the one mutex, and every late event
// checks the session state (and transaction reference) before applying, so
// whichever path reaches a terminal decision first wins and the others are
// no-ops.
type Orchestrator struct {
	mu      sync.Mutex
	session *Session
	gateway momo.Gateway
	sched   *Scheduler
	hooks   Hooks
	sink    Sink
	timings Timings

	cancelled bool
}

func NewOrchestrator(sess *Session, gateway momo.Gateway, hooks Hooks, sink Sink, timings Timings) *Orchestrator {
	return &Orchestrator{
		session: sess,
		gateway: gateway,
		sched:   NewScheduler(),
		hooks:   hooks,
		sink:    sink,
		timings: timings,
	}
}

// MethodSelection is the user's payment-method intent.
type MethodSelection struct {
	Provider   momo.Provider
	Phone      string
	PayerName  string
	PayerEmail string
}

// SelectMethod validates the selection and, if valid, initiates the
// collection with the gateway. Validation problems are returned to the
// caller and leave the session in MethodSelection; initiation failures
// resolve the session to Failed and are surfaced through the snapshot.
func (o *Orchestrator) SelectMethod(ctx context.Context, sel MethodSelection) error {
	o.mu.Lock()
	if o.session.State != StateMethodSelection {
		o.mu.Unlock()
		return ErrBadState
	}
	if !momo.ValidPhone(sel.Phone, sel.Provider) {
		o.session.Reason = ReasonValidation
		o.publishLocked()
		o.mu.Unlock()
		return ErrInvalidPhone
	}
	o.session.Provider = sel.Provider
	o.session.Phone = sel.Phone
	o.session.PayerName = sel.PayerName
	o.session.PayerEmail = sel.PayerEmail
	o.session.Reason = ReasonNone
	o.session.State = StateInitiating
	o.publishLocked()
	req := momo.BuildCollectRequest(
		o.session.OrderRef, o.session.Phone, o.session.Provider,
		o.session.AmountXAF, o.session.ServiceFeeXAF,
		o.session.PayerName, o.session.PayerEmail,
	)
	o.mu.Unlock()

	res, err := o.gateway.Collect(ctx, req)

	o.mu.Lock()
	if o.cancelled || o.session.State.Terminal() {
		o.mu.Unlock()
		return nil
	}
	if err != nil {
		log.Printf("[PAY] collect error order_ref=%s: %v", o.session.OrderRef, err)
		notify := o.failLocked(ReasonNetwork)
		o.mu.Unlock()
		notify()
		return nil
	}
	if !res.Success {
		log.Printf("[PAY] collect rejected order_ref=%s: %s", o.session.OrderRef, res.Error)
		notify := o.failLocked(ReasonGatewayFailed)
		o.mu.Unlock()
		notify()
		return nil
	}

	now := time.Now()
	o.session.Reference = res.Reference
	o.session.UssdCode = res.UssdCode
	o.session.StartedAt = now
	o.session.DeadlineAt = now.Add(o.timings.Deadline)
	o.session.State = StateAwaitingUssdAck
	o.publishLocked()
	log.Printf("[PAY] collect accepted order_ref=%s reference=%s ussd=%q", o.session.OrderRef, res.Reference, res.UssdCode)
	// The deadline is fixed at initiation; the poll loop starts after the
	// grace delay.
	o.sched.StartOnce(o.timings.Deadline, o.deadlineFired)
	o.sched.StartOnce(o.timings.UssdGrace, o.graceElapsed)
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) graceElapsed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelled || o.session.State != StateAwaitingUssdAck {
		return
	}
	if o.session.UssdCode != "" {
		o.session.State = StateDisplayingUssd
	} else {
		o.session.State = StatePolling
	}
	o.publishLocked()
	o.sched.StartPeriodic(o.timings.PollInterval, o.pollTick)
}

func (o *Orchestrator) pollTick() {
	o.mu.Lock()
	if o.cancelled || (o.session.State != StateDisplayingUssd && o.session.State != StatePolling) {
		o.mu.Unlock()
		return
	}
	ref := o.session.Reference
	o.mu.Unlock()

	status, err := o.gateway.CheckStatus(context.Background(), ref)

	o.mu.Lock()
	// A tick result that raced a terminal resolution, a cancel, or a retry
	// is discarded here.
	if o.cancelled || o.session.State.Terminal() || o.session.Reference != ref {
		o.mu.Unlock()
		return
	}
	if err != nil || status == momo.StatusUnknown {
		log.Printf("[PAY] transient poll error order_ref=%s: status=%v err=%v", o.session.OrderRef, status, err)
		o.mu.Unlock()
		return
	}
	notify := o.applyStatusLocked(status, false)
	o.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// deadlineFired is the backstop: the periodic poll is cancelled, one final
// check is issued, and the session resolves no matter what it returns.
func (o *Orchestrator) deadlineFired() {
	o.mu.Lock()
	if o.cancelled || o.session.State.Terminal() {
		o.mu.Unlock()
		return
	}
	o.sched.CancelAll()
	o.session.State = StateVerifying
	o.publishLocked()
	ref := o.session.Reference
	o.mu.Unlock()

	status, err := o.gateway.CheckStatus(context.Background(), ref)

	o.mu.Lock()
	if o.cancelled || o.session.State.Terminal() || o.session.Reference != ref {
		o.mu.Unlock()
		return
	}
	var notify func()
	if err != nil || status == momo.StatusUnknown || status == momo.StatusPending {
		log.Printf("[PAY] deadline reached without resolution order_ref=%s (status=%v err=%v)", o.session.OrderRef, status, err)
		notify = o.failLocked(ReasonTimeout)
	} else {
		notify = o.applyStatusLocked(status, true)
	}
	o.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// applyStatusLocked maps an authoritative gateway status to a transition.
// Returns the hook notification to run after the lock is released, or nil
// when the session stays in place.
func (o *Orchestrator) applyStatusLocked(status momo.Status, final bool) func() {
	switch status {
	case momo.StatusCompleted:
		return o.succeedLocked()
	case momo.StatusFailed:
		return o.failLocked(ReasonGatewayFailed)
	case momo.StatusExpired:
		return o.failLocked(ReasonGatewayExpired)
	case momo.StatusPending:
		if final {
			return o.failLocked(ReasonTimeout)
		}
	}
	return nil
}

func (o *Orchestrator) succeedLocked() func() {
	o.session.State = StateSucceeded
	o.session.Reason = ReasonNone
	o.sched.CancelAll()
	o.publishLocked()
	log.Printf("[PAY] order_ref=%s SUCCEEDED (attempt %d)", o.session.OrderRef, o.session.AttemptCount)
	orderRef := o.session.OrderRef
	return func() { o.hooks.PaymentSucceeded(orderRef) }
}

func (o *Orchestrator) failLocked(reason FailureReason) func() {
	o.session.State = StateFailed
	o.session.Reason = reason
	o.sched.CancelAll()
	o.publishLocked()
	log.Printf("[PAY] order_ref=%s FAILED reason=%s (attempt %d)", o.session.OrderRef, reason, o.session.AttemptCount)
	orderRef := o.session.OrderRef
	return func() { o.hooks.PaymentFailed(orderRef, reason) }
}

// Cancel abandons the attempt. Allowed in any non-terminal state; stops all
// schedules and emits no terminal result. In-flight gateway calls complete
// but their results are discarded.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session.State.Terminal() {
		return
	}
	o.cancelled = true
	o.sched.CancelAll()
	log.Printf("[PAY] order_ref=%s cancelled by user in state %s", o.session.OrderRef, o.session.State)
}

// Retry starts a fresh attempt after a failure: the previous gateway
// reference is discarded (late responses for it no longer match), the
// attempt counter advances and the session returns to MethodSelection.
func (o *Orchestrator) Retry() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session.State != StateFailed {
		return ErrBadState
	}
	o.sched.CancelAll()
	o.cancelled = false
	o.session.Reference = ""
	o.session.UssdCode = ""
	o.session.Reason = ReasonNone
	o.session.StartedAt = time.Time{}
	o.session.DeadlineAt = time.Time{}
	o.session.AttemptCount++
	o.session.State = StateMethodSelection
	o.publishLocked()
	return nil
}

// Snapshot returns the current read-only view of the session.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.snapshot(time.Now())
}

// UserID of the session owner.
func (o *Orchestrator) UserID() uint {
	return o.session.UserID
}

func (o *Orchestrator) publishLocked() {
	if o.sink != nil {
		o.sink.Publish(o.session.UserID, o.session.snapshot(time.Now()))
	}
}
