// Package health serves liveness and readiness checks for long-running
// arena batches.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthCheck is one named check
type HealthCheck interface {
	Name() string
	// Check returns an error when the component is unhealthy
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated readiness report
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of a single check
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs registered checks on demand
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates an empty checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]HealthCheck)}
}

// AddCheck registers check, replacing any check with the same name
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a check by name
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every check. The overall status is healthy only when
// all of them pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{Status: "healthy", Checks: make(map[string]ComponentHealth, len(hc.checks))}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: "healthy"}
	}
	return status
}

// LivenessHandler always answers 200 while the process serves requests
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// Handler returns a mux serving /health and /ready
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// BreakerHealthCheck fails once too many arenas sit behind an open
// circuit breaker.
type BreakerHealthCheck struct {
	total   func() int
	open    func() int
	maxOpen float64
}

// NewBreakerHealthCheck fails when the open fraction exceeds maxOpen
func NewBreakerHealthCheck(total, open func() int, maxOpen float64) *BreakerHealthCheck {
	return &BreakerHealthCheck{total: total, open: open, maxOpen: maxOpen}
}

// Name returns "arena_breakers"
func (b *BreakerHealthCheck) Name() string {
	return "arena_breakers"
}

// Check implements HealthCheck
func (b *BreakerHealthCheck) Check(ctx context.Context) error {
	total, open := b.total(), b.open()
	if total == 0 {
		return fmt.Errorf("no arenas running")
	}
	if frac := float64(open) / float64(total); frac > b.maxOpen {
		return fmt.Errorf("%d of %d arenas isolated by open breakers", open, total)
	}
	return nil
}

// ProgressHealthCheck fails when the batch has not stepped recently
type ProgressHealthCheck struct {
	lastStep func() time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewProgressHealthCheck fails when lastStep is older than maxAge. A zero
// lastStep means the batch has not started and passes.
func NewProgressHealthCheck(lastStep func() time.Time, maxAge time.Duration) *ProgressHealthCheck {
	return &ProgressHealthCheck{lastStep: lastStep, maxAge: maxAge, now: time.Now}
}

// Name returns "arena_progress"
func (p *ProgressHealthCheck) Name() string {
	return "arena_progress"
}

// Check implements HealthCheck
func (p *ProgressHealthCheck) Check(ctx context.Context) error {
	last := p.lastStep()
	if last.IsZero() {
		return nil
	}
	if age := p.now().Sub(last); age > p.maxAge {
		return fmt.Errorf("no arena step for %v (limit %v)", age.Round(time.Millisecond), p.maxAge)
	}
	return nil
}

// MemoryHealthCheck fails when heap usage passes a limit
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a memory check reading usage in megabytes
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{maxMemoryMB: maxMemoryMB, getMemoryUsage: getMemoryUsage}
}

// Name returns "memory"
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check implements HealthCheck
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if currentMB := m.getMemoryUsage(); currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
