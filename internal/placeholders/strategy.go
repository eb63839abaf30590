package placeholders

import (
	"fmt"
	"log/slog"
)

// Strategy extracts placeholder names from a template file. A strategy may
// return a partial set together with an error.
type Strategy interface {
	Name() string
	Extract(data []byte) (*Set, error)
}

// Extractor never fails: it runs its strategies in order and returns the
// first successful result, or the primary strategy's partial set when all
// of them fail.
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// TryInOrder composes strategies into an Extractor.
func TryInOrder(logger *slog.Logger, strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies, logger: logger}
}

func (e *Extractor) Extract(data []byte) *Set {
	var partial *Set

	for i, s := range e.strategies {
		set, err := runStrategy(s, data)
		if err == nil {
			return set
		}

		e.logger.Warn("placeholder extraction degraded",
			"strategy", s.Name(),
			"error", err,
			"fallback", i+1 < len(e.strategies),
		)

		if i == 0 {
			partial = set
		}
	}

	if partial == nil {
		return NewSet()
	}
	return partial
}

func runStrategy(s Strategy, data []byte) (set *Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			set, err = nil, fmt.Errorf("%s panicked: %v", s.Name(), r)
		}
	}()
	return s.Extract(data)
}
