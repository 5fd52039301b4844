package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Number: 1, Limit: 10}},
		{"negative", Page{Number: -3, Limit: -1}, Page{Number: 1, Limit: 10}},
		{"clamped", Page{Number: 2, Limit: 500}, Page{Number: 2, Limit: 100}},
		{"kept", Page{Number: 4, Limit: 25}, Page{Number: 4, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		p := NewPagination(Page{Number: 2, Limit: 10}, 25)
		assert.Equal(t, Pagination{
			CurrentPage:     2,
			TotalPages:      3,
			TotalItems:      25,
			ItemsPerPage:    10,
			HasNextPage:     true,
			HasPreviousPage: true,
		}, p)
	})

	t.Run("empty", func(t *testing.T) {
		p := NewPagination(Page{Number: 1, Limit: 10}, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasNextPage)
		assert.False(t, p.HasPreviousPage)
	})

	t.Run("exact multiple", func(t *testing.T) {
		p := NewPagination(Page{Number: 2, Limit: 5}, 10)
		assert.Equal(t, 2, p.TotalPages)
		assert.False(t, p.HasNextPage)
	})
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Page{Number: 3, Limit: 20}.Offset())
}
