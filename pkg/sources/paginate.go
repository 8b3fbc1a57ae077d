package sources

import (
	"context"
	"fmt"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
)

// PageFunc fetches one page of a listing.
type PageFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// Paginate fetches pages 1..TotalPages in order and concatenates their items.
// It stops after the first page when TotalPages is 0 or 1 and fails once
// constants.MaxPages pages have been read without reaching the end.
func Paginate[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	return PaginateN(ctx, fetch, constants.MaxPages)
}

// PaginateN is Paginate with an explicit page bound.
func PaginateN[T any](ctx context.Context, fetch PageFunc[T], maxPages int) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		if page > maxPages {
			return nil, &errors.ValidationError{
				Field:   "totalPages",
				Value:   page,
				Message: fmt.Sprintf("listing exceeds %d pages", maxPages),
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, result.Items...)

		if page >= result.TotalPages {
			return all, nil
		}
	}
}
