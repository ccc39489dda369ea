package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 10, p.PerPage)
	require.Equal(t, 35, p.Total)
	require.Equal(t, 4, p.TotalPages)
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 1, p.TotalPages)
}

func TestDescribe(t *testing.T) {
	rows := []string{"a", "b"}
	d := NewPagination(1, 10, 2).Describe(rows)
	require.Equal(t, 1, d.CurrentPage)
	require.Equal(t, 1, d.LastPage)
	require.Equal(t, 10, d.PerPage)
	require.Equal(t, 2, d.Total)
	require.Equal(t, rows, d.Data)
}

func TestDescribeEmpty(t *testing.T) {
	d := NewPagination(1, 10, 0).Describe(nil)
	require.Equal(t, 1, d.LastPage)
	require.Zero(t, d.Total)
}
