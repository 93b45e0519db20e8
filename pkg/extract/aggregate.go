package extract

import (
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/params"
)

// Aggregate is the ordered set of extractors eligible for one parameters
// type. It folds each source through the first extractor accepting it.
type Aggregate struct {
	ptype      params.Type
	extractors []Extractor
}

// Type returns the parameters type the aggregate was built for.
func (a *Aggregate) Type() params.Type {
	return a.ptype
}

// Extractors returns the eligible extractors in consultation order.
func (a *Aggregate) Extractors() []Extractor {
	out := make([]Extractor, len(a.extractors))
	copy(out, a.extractors)
	return out
}

// Fold merges sources into target in order. Sources no extractor accepts
// are skipped. It fails only when target is not an instance of the
// aggregate's parameters type.
func (a *Aggregate) Fold(target params.Parameters, sources ...any) error {
	if !a.ptype.Accepts(target) {
		return errors.IllegalArgument("parameters %T are not assignable to %s", target, a.ptype)
	}

	for _, source := range sources {
		a.extract(source, target)
	}
	return nil
}

// extract invokes at most one extractor and reports whether any accepted.
func (a *Aggregate) extract(source any, target params.Parameters) bool {
	for _, e := range a.extractors {
		if accepts(e, source) {
			e.Extract(source, target)
			return true
		}
	}
	return false
}

// Populate instantiates the aggregate's parameters type and folds sources
// into it.
func (a *Aggregate) Populate(sources ...any) (params.Parameters, error) {
	p, err := a.ptype.New()
	if err != nil {
		return nil, err
	}
	if err := a.Fold(p, sources...); err != nil {
		return nil, err
	}
	return p, nil
}
