package ioc

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

type HealthReport struct {
	Name    string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ReadinessChecker interface {
	ReadinessCheck(ctx context.Context) error
}

// Live runs the health checks of every built instance and fails on the first
// one that is down. Instances that were never resolved are not checked.
func (c *Container) Live(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, target := range c.checkTargets() {
		hc, ok := target.instance.(HealthChecker)
		if !ok {
			continue
		}
		g.Go(
			func() error {
				if err := hc.HealthCheck(ctx); err != nil {
					return errHealthCheckFailed(target.name, err)
				}
				return nil
			},
		)
	}
	return g.Wait()
}

// Ready is Live for ReadinessChecker.
func (c *Container) Ready(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, target := range c.checkTargets() {
		rc, ok := target.instance.(ReadinessChecker)
		if !ok {
			continue
		}
		g.Go(
			func() error {
				if err := rc.ReadinessCheck(ctx); err != nil {
					return errHealthCheckFailed(target.name, err)
				}
				return nil
			},
		)
	}
	return g.Wait()
}

// Health runs every health check and reports all of them, in registration
// order.
func (c *Container) Health(ctx context.Context) []HealthReport {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		reports []HealthReport
	)

	targets := c.checkTargets()
	index := make(map[string]int, len(targets))
	for i, target := range targets {
		index[target.name] = i

		hc, ok := target.instance.(HealthChecker)
		if !ok {
			continue
		}
		g.Go(
			func() error {
				start := time.Now()
				err := hc.HealthCheck(ctx)

				report := HealthReport{
					Name:    target.name,
					Status:  HealthStatusUp,
					Latency: time.Since(start),
				}
				if err != nil {
					report.Status = HealthStatusDown
					report.Error = err
				}

				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()
				return nil
			},
		)
	}
	_ = g.Wait()

	slices.SortFunc(
		reports, func(a, b HealthReport) int {
			return cmp.Compare(index[a.Name], index[b.Name])
		},
	)
	return reports
}

type checkTarget struct {
	name     string
	instance any
}

func (c *Container) checkTargets() []checkTarget {
	var targets []checkTarget
	for _, e := range c.internal.Entries() {
		if e.Instantiated && e.Instance != nil {
			targets = append(targets, checkTarget{name: e.Key, instance: e.Instance})
		}
	}
	return targets
}
