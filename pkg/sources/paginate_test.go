package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/stocksync/stocksync/pkg/errors"
)

func TestPaginate(t *testing.T) {
	t.Run("three pages queried once each in order", func(t *testing.T) {
		var calls []int
		fetch := func(_ context.Context, page int) (Page[string], error) {
			calls = append(calls, page)
			return Page[string]{
				Items:      []string{string(rune('a' + page - 1))},
				TotalPages: 3,
			}, nil
		}

		items, err := Paginate(context.Background(), fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, calls)
		assert.Equal(t, []string{"a", "b", "c"}, items)
	})

	for _, total := range []int{0, 1} {
		t.Run("terminates when total pages is small", func(t *testing.T) {
			calls := 0
			fetch := func(_ context.Context, _ int) (Page[int], error) {
				calls++
				return Page[int]{Items: []int{calls}, TotalPages: total}, nil
			}

			items, err := Paginate(context.Background(), fetch)
			require.NoError(t, err)
			assert.Equal(t, 1, calls)
			assert.Equal(t, []int{1}, items)
		})
	}

	t.Run("error stops the loop", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		fetch := func(_ context.Context, page int) (Page[int], error) {
			calls++
			if page == 2 {
				return Page[int]{}, boom
			}
			return Page[int]{Items: []int{page}, TotalPages: 5}, nil
		}

		_, err := Paginate(context.Background(), fetch)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls)
	})

	t.Run("bounded", func(t *testing.T) {
		calls := 0
		fetch := func(_ context.Context, _ int) (Page[int], error) {
			calls++
			return Page[int]{TotalPages: 1 << 30}, nil
		}

		_, err := PaginateN(context.Background(), fetch, 4)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Equal(t, 4, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fetch := func(_ context.Context, _ int) (Page[int], error) {
			t.Fatal("fetch must not be called")
			return Page[int]{}, nil
		}

		_, err := Paginate(ctx, fetch)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIDs(t *testing.T) {
	for _, id := range IDs() {
		assert.True(t, id.IsValid())
	}
	assert.False(t, ID("dropbox").IsValid())
	assert.Equal(t, "airtable", AirtableID.String())
}
