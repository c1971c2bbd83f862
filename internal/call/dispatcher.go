package call

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/model"
)

// CallObserver receives lifecycle events from call dispatch. Implementations
// may record metrics or audit logs.
type CallObserver interface {
	OnCallExecuted(ctx context.Context, event CallEvent)
}

// CallEvent describes the outcome of one dispatched call.
type CallEvent struct {
	Call        model.CallName
	Type        model.CallType
	PrincipalID int64
	Success     bool
	ErrorCode   string
	Duration    time.Duration
}

// Dispatcher composes the registry, the parameter validator, and the
// executor into the gateway's single integration point. Every lower-layer
// failure becomes envelope data here; Dispatch never returns an error and
// never panics through to its caller.
type Dispatcher struct {
	registry    *registry.Registry
	exec        Executor
	errorDetail bool
	logger      *zap.Logger
	observers   []CallObserver
}

// DispatcherOption configures optional dispatcher behavior.
type DispatcherOption func(*Dispatcher)

// WithErrorDetail controls whether raw store error messages appear in the
// failure envelope. Enabled in development; production clients get the bare
// code so schema internals never leak.
func WithErrorDetail(enabled bool) DispatcherOption {
	return func(d *Dispatcher) { d.errorDetail = enabled }
}

// WithObserver adds a call observer.
func WithObserver(obs CallObserver) DispatcherOption {
	return func(d *Dispatcher) { d.observers = append(d.observers, obs) }
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(reg *registry.Registry, exec Executor, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		exec:     exec,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch validates the call's parameters against its spec, executes it
// under the given principal, and shapes the outcome into the uniform
// envelope. Validation failures never reach the store.
func (d *Dispatcher) Dispatch(ctx context.Context, principalID int64, call model.CallData) (result model.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("panic during dispatch",
				zap.String("call", string(call.Call)),
				zap.Any("panic", rec),
			)
			result = model.Failure(model.ErrInternalServerError, nil)
		}
	}()

	spec, ok := d.registry.ParamSpec(call.Call)
	if !ok {
		// Unreachable when the call comes from the route table; guards
		// direct dispatcher users.
		return model.Failure(model.ErrUnknownCall, nil)
	}

	parsed := registry.ParseParams(call.Params, spec)
	if !parsed.OK() {
		d.notify(ctx, call, principalID, false, model.ErrInvalidParams, 0)
		return model.Failure(model.ErrInvalidParams, parsed.Invalid)
	}

	start := time.Now()
	rows, err := d.exec.Execute(ctx, principalID, call.Call, parsed.Params, call.Type, call.Pagination)
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Warn("store call failed",
			zap.String("call", string(call.Call)),
			zap.Int64("principal_id", principalID),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		d.notify(ctx, call, principalID, false, model.ErrDBCallFailed, elapsed)
		var detail any
		if d.errorDetail {
			detail = err.Error()
		}
		return model.Failure(model.ErrDBCallFailed, detail)
	}

	d.notify(ctx, call, principalID, true, "", elapsed)
	if rows == nil {
		rows = []model.Row{}
	}
	return model.Success(rows)
}

func (d *Dispatcher) notify(ctx context.Context, call model.CallData, principalID int64, success bool, code string, elapsed time.Duration) {
	if len(d.observers) == 0 {
		return
	}
	event := CallEvent{
		Call:        call.Call,
		Type:        call.Type,
		PrincipalID: principalID,
		Success:     success,
		ErrorCode:   code,
		Duration:    elapsed,
	}
	for _, obs := range d.observers {
		obs.OnCallExecuted(ctx, event)
	}
}
