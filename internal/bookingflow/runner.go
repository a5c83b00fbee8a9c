package bookingflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/apiclient"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// DefaultAutoAdvance is the pause between a successful coverage check and
// moving on to service selection.
const DefaultAutoAdvance = time.Second

// API is the server surface the flow needs. *apiclient.Client implements it.
type API interface {
	CheckCoverage(ctx context.Context, zip string) (*dto.CoverageResponse, error)
	ListServices(ctx context.Context) ([]dto.ServiceItem, error)
	ListOptions(ctx context.Context, serviceID uint) ([]models.ServiceOption, error)
	PreviewDiscount(ctx context.Context, code string, subtotal decimal.Decimal) (*dto.DiscountPreviewResponse, error)
	SubmitBooking(ctx context.Context, req dto.BookingSubmitRequest) (*dto.BookingSubmitResponse, error)
}

var _ API = (*apiclient.Client)(nil)

type RunnerOption func(*Runner)

func WithAutoAdvance(d time.Duration) RunnerOption {
	return func(r *Runner) { r.autoAdvance = d }
}

func WithKeyFunc(fn func() string) RunnerOption {
	return func(r *Runner) { r.newKey = fn }
}

// WithObserver registers fn to be called with every new state.
func WithObserver(fn func(State)) RunnerOption {
	return func(r *Runner) { r.observers = append(r.observers, fn) }
}

// Runner owns the current state. Events are applied one at a time; effects
// run outside the lock so a second submit while one is in flight is seen
// (and dropped) by the reducer.
type Runner struct {
	api         API
	log         *logrus.Logger
	autoAdvance time.Duration
	newKey      func() string
	observers   []func(State)

	mu    sync.Mutex
	state State
}

func NewRunner(api API, log *logrus.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		api:         api,
		log:         log,
		autoAdvance: DefaultAutoAdvance,
		newKey:      uuid.NewString,
		state:       NewState(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Dispatch applies ev, then performs pending effects until the flow settles.
func (r *Runner) Dispatch(ctx context.Context, ev Event) State {
	st := r.apply(ev)
	for st.Pending != EffectNone {
		outcome := r.perform(ctx, st)
		if outcome == nil {
			break
		}
		st = r.apply(outcome)
	}
	return st
}

// Confirm submits the booking from REVIEW.
func (r *Runner) Confirm(ctx context.Context) State {
	return r.Dispatch(ctx, Submit{IdempotencyKey: r.newKey()})
}

func (r *Runner) apply(ev Event) State {
	r.mu.Lock()
	r.state = Reduce(r.state, ev)
	st := r.state
	r.mu.Unlock()

	for _, fn := range r.observers {
		fn(st)
	}
	return st
}

func (r *Runner) perform(ctx context.Context, st State) Event {
	entry := r.log.WithField("step", st.Step.String())

	switch st.Pending {
	case EffectCheckCoverage:
		res, err := r.api.CheckCoverage(ctx, st.Zip)
		if err != nil {
			return r.failed(entry, EffectCheckCoverage, err)
		}
		return CoverageChecked{Zip: st.Zip, Covered: res.Covered, Message: res.Message}

	case EffectAutoAdvance:
		t := time.NewTimer(r.autoAdvance)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		return AutoAdvance{Zip: st.Zip}

	case EffectLoadServices:
		list, err := r.api.ListServices(ctx)
		if err != nil {
			return r.failed(entry, EffectLoadServices, err)
		}
		return ServicesLoaded{Services: list}

	case EffectLoadOptions:
		// always fetched fresh: prices must match the server at submit time
		options := make(map[uint][]models.ServiceOption, len(st.Selected))
		for _, id := range st.Selected {
			list, err := r.api.ListOptions(ctx, id)
			if err != nil {
				return r.failed(entry, EffectLoadOptions, err)
			}
			options[id] = list
		}
		return OptionsLoaded{Options: options}

	case EffectApplyDiscount:
		res, err := r.api.PreviewDiscount(ctx, st.DiscountCode, st.Preview.Subtotal)
		if err != nil {
			f := FailureFrom(err)
			if f.Class == apiclient.ClassNetwork || f.Class == apiclient.ClassRetryable {
				return r.failed(entry, EffectApplyDiscount, err)
			}
			return DiscountRejected{Code: st.DiscountCode, Failure: f}
		}
		return DiscountApplied{Code: st.DiscountCode, Amount: res.DiscountAmount}

	case EffectSubmit:
		res, err := r.api.SubmitBooking(ctx, st.Request())
		if err != nil {
			return r.failed(entry, EffectSubmit, err)
		}
		entry.WithField("reference", res.ReferenceNumber).Info("booking submitted")
		return SubmitSucceeded{BookingID: res.BookingID, Reference: res.ReferenceNumber}
	}

	return nil
}

func (r *Runner) failed(entry *logrus.Entry, effect Effect, err error) Event {
	f := FailureFrom(err)
	entry.WithError(err).WithField("class", f.Class.String()).Warn("request failed")
	return RequestFailed{Effect: effect, Failure: f}
}
