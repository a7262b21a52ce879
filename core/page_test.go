package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		want                 Pagination
	}{
		{name: "empty", page: 1, perPage: 10, total: 0, want: Pagination{CurrentPage: 1, LastPage: 1, PerPage: 10, Total: 0}},
		{name: "exact pages", page: 2, perPage: 10, total: 20, want: Pagination{CurrentPage: 2, LastPage: 2, PerPage: 10, Total: 20}},
		{name: "partial last page", page: 1, perPage: 10, total: 21, want: Pagination{CurrentPage: 1, LastPage: 3, PerPage: 10, Total: 21}},
		{name: "default per page", page: 1, total: 11, want: Pagination{CurrentPage: 1, LastPage: 2, PerPage: PageSize, Total: 11}},
		{name: "page below 1", page: -3, perPage: 10, total: 5, want: Pagination{CurrentPage: 1, LastPage: 1, PerPage: 10, Total: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.perPage, tt.total))
		})
	}
}

func TestPageRequest_Paginate(t *testing.T) {
	tests := []struct {
		name               string
		page, n            int
		wantStart, wantEnd int
	}{
		{name: "no page", page: 0, n: 25, wantStart: 0, wantEnd: 10},
		{name: "second page", page: 2, n: 25, wantStart: 10, wantEnd: 20},
		{name: "last page", page: 3, n: 25, wantStart: 20, wantEnd: 25},
		{name: "past the end", page: 4, n: 25, wantStart: 25, wantEnd: 25},
		{name: "empty", page: 1, n: 0, wantStart: 0, wantEnd: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := PageRequest{Page: tt.page}
			start, end := pr.Paginate(tt.n)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, PageSize, pr.Limit())
		})
	}
}
