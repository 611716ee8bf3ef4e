package infra

import (
	"errors"
	"sync"
	"time"
)

// CircuitBreaker guards the alert queue. Enqueues run after a stock
// transaction committed, so a dead Redis must fail fast instead of adding a
// dial timeout to every sale.
//
// Closed lets calls through and opens after FailureThreshold consecutive
// failures. Open rejects calls with ErrCircuitOpen until OpenTimeout elapsed,
// then turns Half-Open: one failure reopens it, SuccessThreshold successes
// close it.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CBState
	falhas   int
	sucessos int
	abertoEm time.Time
}

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

var cbStateNames = map[CBState]string{
	CBClosed:   "closed",
	CBOpen:     "open",
	CBHalfOpen: "half-open",
}

func (s CBState) String() string {
	if n, ok := cbStateNames[s]; ok {
		return n
	}
	return "unknown"
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig trips after three failed enqueues and lets a call through again after 30s.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: 30 * time.Second}
}

// NewCircuitBreaker fills zero fields of cfg from DefaultCBConfig.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// stateLocked promotes Open to Half-Open once the timeout elapsed.
func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.abertoEm) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.sucessos = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open and records its outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}
	err := fn()

	cb.mu.Lock()
	cb.record(err)
	cb.mu.Unlock()
	return err
}

func (cb *CircuitBreaker) record(err error) {
	state := cb.stateLocked()
	if err != nil {
		cb.falhas++
		if state == CBHalfOpen || cb.falhas >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.abertoEm = cb.now()
			cb.falhas, cb.sucessos = 0, 0
		}
		return
	}

	switch state {
	case CBClosed:
		cb.falhas = 0
	case CBHalfOpen:
		cb.sucessos++
		if cb.sucessos >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.falhas, cb.sucessos = 0, 0
		}
	}
}
