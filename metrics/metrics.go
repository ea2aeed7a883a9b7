// Package metrics records container activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pikciu/ioc"
)

const namespace = "ioc"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Observer holds the container metrics. Wire it into a container with
// ioc.New(observer.Options()...).
type Observer struct {
	registrations      *prometheus.CounterVec
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	closeErrors        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of registrations, labelled by whether they replaced an existing one",
			},
			[]string{"contract", "replaced"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of resolutions by contract and result",
			},
			[]string{"contract", "result"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Time spent resolving a contract, dependencies included",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"contract"},
		),
		closeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "close_errors_total",
				Help:      "Total number of singletons that failed to close",
			},
			[]string{"contract"},
		),
	}

	for _, c := range []prometheus.Collector{o.registrations, o.resolutions, o.resolutionDuration, o.closeErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// MustNew is like New but panics if the collectors cannot be registered.
func MustNew(reg prometheus.Registerer) *Observer {
	o, err := New(reg)
	if err != nil {
		panic(err)
	}
	return o
}

func (o *Observer) Options() []ioc.Option {
	return []ioc.Option{
		ioc.WithRegisterObserver(o.ObserveRegister),
		ioc.WithResolveObserver(o.ObserveResolve),
		ioc.WithCloseObserver(o.ObserveClose),
	}
}

func (o *Observer) ObserveRegister(contract string, replaced bool) {
	label := "false"
	if replaced {
		label = "true"
	}
	o.registrations.WithLabelValues(ioc.ShortName(contract), label).Inc()
}

func (o *Observer) ObserveResolve(contract string, d time.Duration, err error) {
	name := ioc.ShortName(contract)
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	o.resolutions.WithLabelValues(name, result).Inc()
	o.resolutionDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (o *Observer) ObserveClose(contract string, err error) {
	if err != nil {
		o.closeErrors.WithLabelValues(ioc.ShortName(contract)).Inc()
	}
}
