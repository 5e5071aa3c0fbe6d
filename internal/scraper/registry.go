package scraper

import (
	"fmt"
	"slices"

	"github.com/drewfead/lunchmap/internal"
)

type Registry interface {
	GetSource(descriptor string) (internal.Source, error)
	// Descriptors lists registered identifiers in registration order.
	Descriptors() []string
}

type SourceMiddleware func(internal.Source) internal.Source

type RegistryOption func(r *registry)

func NewRegistry(opts ...RegistryOption) Registry {
	r := &registry{
		sources: make(map[string]internal.Source),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithSource registers source under its own descriptor, wrapped by middleware in order
// (the last middleware is outermost). Registering a descriptor again replaces the source.
func WithSource(source internal.Source, middleware ...SourceMiddleware) RegistryOption {
	return func(r *registry) {
		descriptor := source.Descriptor()
		for _, m := range middleware {
			source = m(source)
		}
		if _, ok := r.sources[descriptor]; !ok {
			r.order = append(r.order, descriptor)
		}
		r.sources[descriptor] = source
	}
}

type registry struct {
	sources map[string]internal.Source
	order   []string
}

// ErrSourceNotFound is returned for identifiers nobody registered.
var ErrSourceNotFound = internal.ErrSourceNotFound

func (r *registry) GetSource(descriptor string) (internal.Source, error) {
	source, ok := r.sources[descriptor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, descriptor)
	}
	return source, nil
}

func (r *registry) Descriptors() []string {
	return slices.Clone(r.order)
}
