package order

import (
	"context"
	"errors"
)

// Fanout appends each record to every store. A failing store does not stop the others.
type Fanout []Store

// Append implements Store. The returned error joins every store failure.
func (f Fanout) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
