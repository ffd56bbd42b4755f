package health

import (
	"context"
	"sync"
	"time"

	redisclient "github.com/devworkshop/usersvc/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	case StatusDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// CheckResult represents the result of a dependency check
type CheckResult struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	Latency      time.Duration `json:"latency_ms"`
	LastCheck    time.Time     `json:"last_check"`
	LastError    string        `json:"last_error,omitempty"`
	CheckCount   int           `json:"check_count"`
	FailureCount int           `json:"failure_count"`

	status Status
}

// Checker interface for dependency checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// DatabaseChecker pings the PostgreSQL connection
type DatabaseChecker struct {
	DB *gorm.DB
}

func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "postgres",
		LastCheck: start,
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		result.status = StatusUnhealthy
		result.LastError = err.Error()
		result.Latency = time.Since(start)
		return result
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		result.status = StatusUnhealthy
		result.LastError = err.Error()
	} else {
		result.status = StatusHealthy
	}
	result.Latency = time.Since(start)

	return result
}

// RedisChecker pings the Redis client. A client disabled by configuration
// reports StatusDisabled, which does not count as a failure.
type RedisChecker struct {
	Client *redisclient.Client
}

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "redis",
		LastCheck: start,
	}

	if !c.Client.IsEnabled() {
		result.status = StatusDisabled
		result.Latency = time.Since(start)
		return result
	}

	if err := c.Client.Ping(ctx); err != nil {
		result.status = StatusUnhealthy
		result.LastError = err.Error()
	} else {
		result.status = StatusHealthy
	}
	result.Latency = time.Since(start)

	return result
}

// Monitor periodically checks the service's dependencies and caches the
// latest result per dependency for the readiness endpoint.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	results  map[string]*CheckResult
	interval time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
}

// NewMonitor creates a new dependency monitor
func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		checkers: make(map[string]Checker),
		results:  make(map[string]*CheckResult),
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds a named dependency checker
func (m *Monitor) Register(name string, checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = checker

	m.logger.Info("Registered dependency checker", zap.String("name", name))
}

// Start starts the periodic checks
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.runChecks()
}

// Stop stops the periodic checks
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	m.cancel()
}

func (m *Monitor) runChecks() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run initial checks
	m.checkAll()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.checkAll()
		}
	}
}

func (m *Monitor) checkAll() {
	m.mu.RLock()
	checkers := make(map[string]Checker)
	for name, checker := range m.checkers {
		checkers[name] = checker
	}
	m.mu.RUnlock()

	for name, checker := range checkers {
		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		result := checker.Check(ctx)
		cancel()

		result.Status = result.status.String()

		m.mu.Lock()
		if existing, ok := m.results[name]; ok {
			result.CheckCount = existing.CheckCount + 1
			if result.status == StatusUnhealthy {
				result.FailureCount = existing.FailureCount + 1
			} else {
				result.FailureCount = existing.FailureCount
			}
		} else {
			result.CheckCount = 1
			if result.status == StatusUnhealthy {
				result.FailureCount = 1
			}
		}
		m.results[name] = &result
		m.mu.Unlock()

		if result.status == StatusUnhealthy {
			m.logger.Warn("Dependency check failed",
				zap.String("name", name),
				zap.Duration("latency", result.Latency),
				zap.String("error", result.LastError),
			)
		}
	}
}

// IsReady reports whether every dependency is currently serving. Disabled
// dependencies do not block readiness.
func (m *Monitor) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, result := range m.results {
		if result.status == StatusUnhealthy || result.status == StatusUnknown {
			return false
		}
	}
	return len(m.results) > 0
}

// Snapshot returns a copy of the latest result per dependency
func (m *Monitor) Snapshot() map[string]CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]CheckResult, len(m.results))
	for name, result := range m.results {
		results[name] = *result
	}
	return results
}
