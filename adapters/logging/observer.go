package logging

import (
	"github.com/artpar/modelkit/core/model"
	"github.com/artpar/modelkit/core/schema"
	"github.com/rs/zerolog"
)

// Observer logs model lifecycle events. Successful events go to debug;
// failed constructions and validations go to warn.
type Observer struct {
	logger zerolog.Logger
}

var _ model.Observer = (*Observer)(nil)

// NewObserver creates an observer logging under the "model" component.
func NewObserver(logger zerolog.Logger) *Observer {
	return &Observer{logger: logger.With().Str("component", "model").Logger()}
}

// TypeDefined implements model.Observer.
func (o *Observer) TypeDefined(t *model.Type) {
	ev := o.logger.Debug().
		Str("type", t.Name()).
		Strs("fields", t.Fields())
	if p := t.Parent(); p != nil {
		ev = ev.Str("parent", p.Name())
	}
	ev.Msg("type defined")
}

// Constructed implements model.Observer.
func (o *Observer) Constructed(t *model.Type, errs schema.ErrorMap, err error) {
	o.event(t, errs, err).Msg("instance constructed")
}

// Validated implements model.Observer.
func (o *Observer) Validated(t *model.Type, errs schema.ErrorMap, err error) {
	o.event(t, errs, err).Msg("instance validated")
}

// DefaultResolved implements model.Observer.
func (o *Observer) DefaultResolved(t *model.Type, field string) {
	o.logger.Debug().
		Str("type", t.Name()).
		Str("field", field).
		Msg("default resolved")
}

func (o *Observer) event(t *model.Type, errs schema.ErrorMap, err error) *zerolog.Event {
	if err == nil && len(errs) == 0 {
		return o.logger.Debug().Str("type", t.Name())
	}
	ev := o.logger.Warn().Str("type", t.Name())
	if err != nil {
		ev = ev.Err(err)
	}
	if len(errs) > 0 {
		ev = ev.Strs("invalid_fields", errs.Fields())
	}
	return ev
}
