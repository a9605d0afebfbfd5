package storage

import (
	"context"
	"errors"

	"solanaSniper/internal/model"
)

// Multi writes every record to each backend in order and joins the errors.
// A failing backend does not stop the others.
type Multi []Storage

func (m Multi) PutTransaction(ctx context.Context, tx model.TransactionRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.PutTransaction(ctx, tx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) PutAccountUpdate(ctx context.Context, update model.AccountUpdate) error {
	var errs []error
	for _, s := range m {
		if err := s.PutAccountUpdate(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
