// Package metrics provides Prometheus metrics collection for model types.
package metrics

import (
	"errors"

	"github.com/artpar/modelkit/core/model"
	"github.com/artpar/modelkit/core/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless overridden.
const DefaultNamespace = "modelkit"

// Result label values.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Collector holds all Prometheus metrics for model types. It implements
// model.Observer.
type Collector struct {
	// Type metrics
	TypesDefined    *prometheus.CounterVec
	TypesRegistered prometheus.Gauge

	// Instance metrics
	Constructions      *prometheus.CounterVec
	Validations        *prometheus.CounterVec
	ValidationErrors   *prometheus.CounterVec
	DefaultResolutions *prometheus.CounterVec

	// Definition metrics
	DefinitionReloads prometheus.Counter
}

var _ model.Observer = (*Collector)(nil)

// New creates a new metrics collector registered with the default registry.
func New(namespace string) *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer, namespace)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer, namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Collector{
		TypesDefined: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "types_defined_total",
				Help:      "Total number of model types composed",
			},
			[]string{"type"},
		),
		TypesRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "types_registered",
				Help:      "Number of model types in the active registry",
			},
		),
		Constructions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constructions_total",
				Help:      "Total number of instance constructions by result",
			},
			[]string{"type", "result"},
		),
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of instance validations by result",
			},
			[]string{"type", "result"},
		),
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of field errors reported by validation",
			},
			[]string{"type", "field"},
		),
		DefaultResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "default_resolutions_total",
				Help:      "Total number of reads that fell back to a field default",
			},
			[]string{"type", "field"},
		),
		DefinitionReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_reloads_total",
				Help:      "Total number of successful definition reloads",
			},
		),
	}
}

// TypeDefined implements model.Observer.
func (c *Collector) TypeDefined(t *model.Type) {
	c.TypesDefined.WithLabelValues(t.Name()).Inc()
}

// Constructed implements model.Observer.
func (c *Collector) Constructed(t *model.Type, errs schema.ErrorMap, err error) {
	c.Constructions.WithLabelValues(t.Name(), result(errs, err)).Inc()
}

// Validated implements model.Observer.
func (c *Collector) Validated(t *model.Type, errs schema.ErrorMap, err error) {
	c.Validations.WithLabelValues(t.Name(), result(errs, err)).Inc()
	for name := range errs {
		c.ValidationErrors.WithLabelValues(t.Name(), name).Inc()
	}
}

// DefaultResolved implements model.Observer.
func (c *Collector) DefaultResolved(t *model.Type, field string) {
	c.DefaultResolutions.WithLabelValues(t.Name(), field).Inc()
}

// RecordReload counts a successful definition reload and tracks the size of
// the new registry.
func (c *Collector) RecordReload(types int) {
	c.DefinitionReloads.Inc()
	c.TypesRegistered.Set(float64(types))
}

// result classifies an outcome. Validation failures count as invalid
// whether they were returned or raised under a strict option.
func result(errs schema.ErrorMap, err error) string {
	switch {
	case errors.Is(err, schema.ErrValidation):
		return ResultInvalid
	case err != nil:
		return ResultError
	case len(errs) > 0:
		return ResultInvalid
	default:
		return ResultOK
	}
}
