package model

import "github.com/artpar/modelkit/core/schema"

// Observer receives model lifecycle events. Implementations must be safe
// for concurrent use when types are shared across goroutines.
type Observer interface {
	// TypeDefined is called once a type has been composed.
	TypeDefined(t *Type)

	// Constructed is called after every Type.New. err is non-nil when
	// construction failed.
	Constructed(t *Type, errs schema.ErrorMap, err error)

	// Validated is called after every Instance.Validate.
	Validated(t *Type, errs schema.ErrorMap, err error)

	// DefaultResolved is called when a read falls back to a field default.
	DefaultResolved(t *Type, field string)
}

// NopObserver ignores every event. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) TypeDefined(*Type) {}
func (NopObserver) Constructed(*Type, schema.ErrorMap, error) {}
func (NopObserver) Validated(*Type, schema.ErrorMap, error) {}
func (NopObserver) DefaultResolved(*Type, string) {}

type multiObserver []Observer

// Observers fans events out to every non-nil observer in order.
func Observers(observers ...Observer) Observer {
	var out multiObserver
	for _, o := range observers {
		switch v := o.(type) {
		case nil:
		case multiObserver:
			out = append(out, v...)
		default:
			out = append(out, o)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiObserver) TypeDefined(t *Type) {
	for _, o := range m {
		o.TypeDefined(t)
	}
}

func (m multiObserver) Constructed(t *Type, errs schema.ErrorMap, err error) {
	for _, o := range m {
		o.Constructed(t, errs, err)
	}
}

func (m multiObserver) Validated(t *Type, errs schema.ErrorMap, err error) {
	for _, o := range m {
		o.Validated(t, errs, err)
	}
}

func (m multiObserver) DefaultResolved(t *Type, field string) {
	for _, o := range m {
		o.DefaultResolved(t, field)
	}
}
