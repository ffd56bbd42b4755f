package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name   string
	status Status
	err    string
}

func (c *stubChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		LastCheck: time.Now(),
		LastError: c.err,
		status:    c.status,
	}
}

func TestMonitorReadyWhenAllHealthy(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Register("postgres", &stubChecker{name: "postgres", status: StatusHealthy})
	m.Register("redis", &stubChecker{name: "redis", status: StatusHealthy})

	m.checkAll()

	assert.True(t, m.IsReady())
	assert.Len(t, m.Snapshot(), 2)
}

func TestMonitorNotReadyWithoutResults(t *testing.T) {
	m := NewMonitor(time.Minute, nil)

	assert.False(t, m.IsReady())
}

func TestMonitorUnhealthyDependencyBlocksReadiness(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Register("postgres", &stubChecker{name: "postgres", status: StatusUnhealthy, err: "timeout"})
	m.Register("redis", &stubChecker{name: "redis", status: StatusHealthy})

	m.checkAll()

	assert.False(t, m.IsReady())
	snapshot := m.Snapshot()
	assert.Equal(t, "UNHEALTHY", snapshot["postgres"].Status)
	assert.Equal(t, 1, snapshot["postgres"].FailureCount)
}

func TestMonitorDisabledDependencyDoesNotBlock(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	m.Register("postgres", &stubChecker{name: "postgres", status: StatusHealthy})
	m.Register("redis", &stubChecker{name: "redis", status: StatusDisabled})

	m.checkAll()

	assert.True(t, m.IsReady())
}

func TestMonitorCountsConsecutiveFailures(t *testing.T) {
	m := NewMonitor(time.Minute, nil)
	checker := &stubChecker{name: "postgres", status: StatusUnhealthy, err: "timeout"}
	m.Register("postgres", checker)

	m.checkAll()
	m.checkAll()
	checker.status = StatusHealthy
	m.checkAll()

	snapshot := m.Snapshot()
	assert.Equal(t, 3, snapshot["postgres"].CheckCount)
	assert.Equal(t, 2, snapshot["postgres"].FailureCount)
}
