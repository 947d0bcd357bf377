package service

import (
	"context"
	"errors"

	"catalogo-api/internal/repository"
	"catalogo-api/internal/validation"
)

// ErrNotFound signals that an identifier resolved to no record. The
// transport layer surfaces it as a 404 with the default message.
var ErrNotFound = errors.New("recurso no encontrado")

// findOrFail resolves an id to a record, mapping the repository's
// not-found sentinel to ErrNotFound. Shared by read, update and delete.
func findOrFail[E any](ctx context.Context, id int64, find func(context.Context, int64) (*E, error)) (*E, error) {
	record, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) || errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// nameTakenError builds the validation failure used when the store's
// unique constraint won a race the pre-check missed.
func nameTakenError(label string) *validation.Error {
	errs := validation.NewErrors()
	errs.Add("name", validation.UniqueMessage(label))
	return validation.NewError(errs)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
