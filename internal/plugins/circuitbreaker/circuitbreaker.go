// Package circuitbreaker implements a circuit breaker state machine on
// the Context/Handler contract: it tracks consecutive failures
// per-breaker and short-circuits the chain (without entering the
// transport) while the circuit is open.
//
// It only sees what the inner chain surfaces as an error, so register
// it outside (before) toError if 5xx responses should count as
// failures: a breaker registered after toError never observes those.
package circuitbreaker

import (
	"context"
	"sync"
	"time"

	"github.com/henrywarne/http-transport/middleware"
)

// State is the circuit breaker's current state.
type State int

const (
	// StateClosed allows requests through and counts failures.
	StateClosed State = iota
	// StateOpen rejects requests immediately.
	StateOpen
	// StateHalfOpen allows a limited number of probe requests.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Plugin.
type Config struct {
	// FailureThreshold is the number of consecutive failures required
	// to trip the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before
	// allowing a half-open probe.
	RecoveryTimeout time.Duration
	// HalfOpenMaxCalls bounds concurrent probes while half-open.
	HalfOpenMaxCalls int
	// OnStateChange, if set, is notified on every transition.
	OnStateChange func(from, to State)
}

// DefaultConfig returns sensible circuit breaker defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// Plugin is the circuit breaker middleware.
type Plugin struct {
	mu                sync.Mutex
	config            Config
	state             State
	consecutiveErrors int
	lastOpened        time.Time
	halfOpenInFlight  int
}

// New builds a circuit breaker plugin with the given config. A zero
// FailureThreshold falls back to DefaultConfig's values.
func New(cfg Config) *Plugin {
	if cfg.FailureThreshold == 0 {
		cfg = DefaultConfig()
	}
	return &Plugin{config: cfg}
}

// Errkind used for the short-circuit rejection.
var errBreakerOpen = &middleware.Error{
	Kind:    middleware.ErrKindTransport,
	Message: "circuit breaker is open",
}

func (p *Plugin) Handle(next middleware.Handler) middleware.Handler {
	return func(ctx context.Context, rc *middleware.Context) error {
		if !p.allow() {
			return errBreakerOpen
		}

		err := next(ctx, rc)
		p.record(err == nil)
		return err
	}
}

func (p *Plugin) allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateOpen:
		if time.Since(p.lastOpened) >= p.config.RecoveryTimeout {
			p.transition(StateHalfOpen)
			p.halfOpenInFlight = 1
			return true
		}
		return false
	case StateHalfOpen:
		if p.halfOpenInFlight >= p.config.HalfOpenMaxCalls {
			return false
		}
		p.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (p *Plugin) record(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if success {
		p.consecutiveErrors = 0
		p.halfOpenInFlight = 0
		p.transition(StateClosed)
		return
	}

	p.consecutiveErrors++
	if p.state == StateHalfOpen || p.consecutiveErrors >= p.config.FailureThreshold {
		p.lastOpened = time.Now()
		p.transition(StateOpen)
	}
}

func (p *Plugin) transition(to State) {
	if p.state == to {
		return
	}
	from := p.state
	p.state = to
	if p.config.OnStateChange != nil {
		go p.config.OnStateChange(from, to)
	}
}

// State reports the breaker's current state.
func (p *Plugin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
