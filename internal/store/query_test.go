package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinsust/kin-api/internal/store"
)

func TestListQueryNormalize(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		n := store.ListQuery{}.Normalize()
		assert.Equal(t, 1, n.Page)
		assert.Equal(t, 10, n.Limit)
	})

	t.Run("clamps the limit", func(t *testing.T) {
		n := store.ListQuery{Page: 3, Limit: 5000}.Normalize()
		assert.Equal(t, 3, n.Page)
		assert.Equal(t, 100, n.Limit)
	})

	t.Run("rejects negative pages", func(t *testing.T) {
		n := store.ListQuery{Page: -4, Limit: -1}.Normalize()
		assert.Equal(t, 1, n.Page)
		assert.Equal(t, 10, n.Limit)
	})
}

func TestListQueryOffset(t *testing.T) {
	assert.Equal(t, 0, store.ListQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, store.ListQuery{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, store.ListQuery{Page: 3, Limit: 25}.Offset())
	assert.Equal(t, 0, store.ListQuery{}.Offset())
}

func TestNewPagination(t *testing.T) {
	t.Run("first of several pages", func(t *testing.T) {
		p := store.NewPagination(35, store.ListQuery{Page: 1, Limit: 10})
		assert.Equal(t, 35, p.TotalDocuments)
		assert.Equal(t, 4, p.TotalPages)
		assert.Equal(t, 1, p.CurrentPage)
		assert.Nil(t, p.PreviousPage)
		if assert.NotNil(t, p.NextPage) {
			assert.Equal(t, 2, *p.NextPage)
		}
	})

	t.Run("middle page has both neighbors", func(t *testing.T) {
		p := store.NewPagination(35, store.ListQuery{Page: 2, Limit: 10})
		if assert.NotNil(t, p.PreviousPage) {
			assert.Equal(t, 1, *p.PreviousPage)
		}
		if assert.NotNil(t, p.NextPage) {
			assert.Equal(t, 3, *p.NextPage)
		}
	})

	t.Run("last page has no next", func(t *testing.T) {
		p := store.NewPagination(35, store.ListQuery{Page: 4, Limit: 10})
		assert.Nil(t, p.NextPage)
		if assert.NotNil(t, p.PreviousPage) {
			assert.Equal(t, 3, *p.PreviousPage)
		}
	})

	t.Run("exact multiple of the limit", func(t *testing.T) {
		p := store.NewPagination(30, store.ListQuery{Page: 1, Limit: 10})
		assert.Equal(t, 3, p.TotalPages)
	})

	t.Run("empty result set", func(t *testing.T) {
		p := store.NewPagination(0, store.ListQuery{})
		assert.Equal(t, 0, p.TotalPages)
		assert.Nil(t, p.PreviousPage)
		assert.Nil(t, p.NextPage)
	})
}
