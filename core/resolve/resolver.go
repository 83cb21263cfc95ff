// Package resolve computes a Result by asking a remote service first and
// falling back to the local calculators when the remote attempt fails.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/factors"
	"github.com/kilianp07/footprint/core/logger"
	"github.com/kilianp07/footprint/core/model"
	"github.com/kilianp07/footprint/core/normalize"
)

// DefaultTimeout bounds the remote attempt when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// divergenceThreshold is the smallest total difference, in kg per week,
// worth reporting between remote and local figures.
const divergenceThreshold = 0.01

// Response is the raw outcome of a remote call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Remote performs one remote computation. Implementations must honour ctx
// cancellation and must not retry.
type Remote interface {
	Compute(ctx context.Context, a model.Activity) (Response, error)
}

// Outcome is delivered once per resolution.
type Outcome struct {
	Result   model.Result
	Source   model.Source
	Activity model.Activity
	// Reason is empty when Source is remote.
	Reason Reason
	Shape  Shape
	// Cause wraps model.ErrRemoteUnavailable when a remote attempt failed.
	Cause    error
	Duration time.Duration
	Trace    []State
}

// Resolver is safe for concurrent use; it holds no per-call state.
type Resolver struct {
	table   *factors.Table
	remote  Remote
	timeout time.Duration
	log     logger.Logger
}

type Option func(*Resolver)

// WithRemote enables the remote attempt.
func WithRemote(r Remote) Option {
	return func(res *Resolver) { res.remote = r }
}

// WithTimeout bounds the remote attempt. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(res *Resolver) {
		if d > 0 {
			res.timeout = d
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(res *Resolver) {
		if l != nil {
			res.log = l
		}
	}
}

// New returns a Resolver using tbl for local computation.
func New(tbl *factors.Table, opts ...Option) *Resolver {
	r := &Resolver{table: tbl, timeout: DefaultTimeout, log: logger.Nop{}}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve normalizes form and resolves the resulting activity. Normalization
// errors are returned before any network I/O.
func (r *Resolver) Resolve(ctx context.Context, form normalize.RawForm) (Outcome, error) {
	a, err := normalize.Normalize(form)
	if err != nil {
		return Outcome{}, fmt.Errorf("normalize form: %w", err)
	}
	return r.ResolveActivity(ctx, a)
}

// ResolveActivity makes at most one remote attempt and falls back to the
// local calculators on any remote failure. If ctx is cancelled by the
// caller before the remote attempt settles, ctx.Err() is returned and no
// Result is delivered.
func (r *Resolver) ResolveActivity(ctx context.Context, a model.Activity) (Outcome, error) {
	start := time.Now()
	m := &machine{log: r.log, state: StateIdle, trace: []State{StateIdle}}
	out := Outcome{Activity: a}

	if r.remote == nil {
		m.move(StateFallingBack)
		out.Reason = ReasonNoRemote
	} else {
		m.move(StateRequesting)
		res, shape, reason, cause := r.attempt(ctx, a)
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if reason == ReasonNone {
			m.move(StateSucceeded)
			out.Result, out.Source, out.Shape = res, model.SourceRemote, shape
			r.checkDivergence(a, res)
		} else {
			m.move(StateFallingBack)
			out.Reason = reason
			out.Cause = fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, cause)
			r.log.Warnw("remote computation failed, using local fallback", map[string]any{
				"reason": string(reason),
				"error":  cause.Error(),
			})
		}
	}

	if out.Source == "" {
		res, err := calc.Local(a, r.table)
		if err != nil {
			return Outcome{}, fmt.Errorf("local computation: %w", err)
		}
		out.Result, out.Source = res, model.SourceLocal
	}
	m.move(StateDone)

	out.Duration = time.Since(start)
	out.Trace = m.trace
	r.log.Debugw("calculation resolved", map[string]any{
		"source":      string(out.Source),
		"reason":      string(out.Reason),
		"duration_ms": out.Duration.Milliseconds(),
		"total_kg":    out.Result.Summary.TotalWeeklyKgCO2,
	})
	return out, nil
}

func (r *Resolver) attempt(ctx context.Context, a model.Activity) (model.Result, Shape, Reason, error) {
	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.remote.Compute(rctx, a)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded) {
			return model.Result{}, ShapeUnrecognized, ReasonTimeout, err
		}
		return model.Result{}, ShapeUnrecognized, ReasonNetwork, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Result{}, ShapeUnrecognized, ReasonStatus, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	res, shape, err := ParseResult(resp.Body)
	switch {
	case errors.Is(err, errUnparsable):
		return model.Result{}, shape, ReasonUnparsable, err
	case errors.Is(err, errUnrecognized):
		return model.Result{}, shape, ReasonUnrecognizedShape, err
	case errors.Is(err, errEmpty):
		return model.Result{}, shape, ReasonEmpty, err
	case err != nil:
		return model.Result{}, shape, ReasonUnparsable, err
	}
	return res, shape, ReasonNone, nil
}

// checkDivergence logs when the remote totals differ from a local
// computation of the same activity. The remote Result is returned unchanged.
func (r *Resolver) checkDivergence(a model.Activity, remote model.Result) {
	local, err := calc.Local(a, r.table)
	if err != nil {
		return
	}
	d := remote.Summary.TotalWeeklyKgCO2 - local.Summary.TotalWeeklyKgCO2
	if math.Abs(d) < divergenceThreshold {
		return
	}
	r.log.Debugw("remote and local totals diverge", map[string]any{
		"remote_kg":     remote.Summary.TotalWeeklyKgCO2,
		"local_kg":      local.Summary.TotalWeeklyKgCO2,
		"divergence_kg": calc.Round(d, 2),
	})
}

type machine struct {
	log   logger.Logger
	state State
	trace []State
}

func (m *machine) move(to State) {
	if !canMove(m.state, to) {
		m.log.Errorf("illegal resolver transition %s -> %s", m.state, to)
	}
	m.log.Debugf("resolver %s -> %s", m.state, to)
	m.state = to
	m.trace = append(m.trace, to)
}
