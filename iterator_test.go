package scm_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-scm"
)

func makeSeq[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func makeSeqWithError[T any](items []T, errAt int, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i, item := range items {
			if i == errAt {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func TestCollect(t *testing.T) {
	t.Run("collects all items", func(t *testing.T) {
		result, err := scm.Collect(makeSeq([]int{1, 2, 3, 4, 5}))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, result)
	})

	t.Run("stops on error", func(t *testing.T) {
		testErr := errors.New("test error")

		result, err := scm.Collect(makeSeqWithError([]int{1, 2, 3, 4, 5}, 3, testErr))
		require.ErrorIs(t, err, testErr)
		assert.Equal(t, []int{1, 2, 3}, result)
	})

	t.Run("handles empty sequence", func(t *testing.T) {
		result, err := scm.Collect(makeSeq([]int{}))
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestCollectN(t *testing.T) {
	t.Run("collects up to n items", func(t *testing.T) {
		result, err := scm.CollectN(makeSeq([]int{1, 2, 3, 4, 5}), 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, result)
	})

	t.Run("collects all if less than n", func(t *testing.T) {
		result, err := scm.CollectN(makeSeq([]int{1, 2}), 5)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, result)
	})

	t.Run("zero n pulls nothing", func(t *testing.T) {
		pulled := 0
		seq := func(yield func(int, error) bool) {
			pulled++
			yield(1, nil)
		}

		result, err := scm.CollectN(seq, 0)
		require.NoError(t, err)
		assert.Empty(t, result)
		assert.Zero(t, pulled)
	})

	t.Run("stops on error before n", func(t *testing.T) {
		testErr := errors.New("test error")

		result, err := scm.CollectN(makeSeqWithError([]int{1, 2, 3, 4, 5}, 2, testErr), 5)
		require.ErrorIs(t, err, testErr)
		assert.Equal(t, []int{1, 2}, result)
	})
}

func TestTake(t *testing.T) {
	t.Run("takes n items", func(t *testing.T) {
		result, err := scm.Collect(scm.Take(makeSeq([]int{1, 2, 3, 4, 5}), 3))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, result)
	})

	t.Run("takes all if less than n", func(t *testing.T) {
		result, err := scm.Collect(scm.Take(makeSeq([]int{1, 2}), 5))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, result)
	})

	t.Run("propagates errors", func(t *testing.T) {
		testErr := errors.New("test error")

		_, err := scm.Collect(scm.Take(makeSeqWithError([]int{1, 2, 3, 4, 5}, 2, testErr), 5))
		require.ErrorIs(t, err, testErr)
	})

	t.Run("stops source early", func(t *testing.T) {
		yielded := 0
		seq := func(yield func(int, error) bool) {
			for i := range 100 {
				yielded++
				if !yield(i, nil) {
					return
				}
			}
		}

		result, err := scm.Collect(scm.Take(seq, 2))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, result)
		assert.Equal(t, 2, yielded)
	})
}
