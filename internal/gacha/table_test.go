package gacha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-menu-gacha/internal/models"
)

func priced(prices ...int) []models.MenuItem {
	items := make([]models.MenuItem, len(prices))
	for i, p := range prices {
		items[i] = models.MenuItem{
			ItemID: string(rune('A' + i)),
			Name:   string(rune('A' + i)),
			Price:  p,
		}
	}
	return items
}

func tableValues(t table) []int {
	values := make([]int, t.capacity()+1)
	for w := range values {
		values[w] = t.value(w)
	}
	return values
}

func TestUnboundedTable(t *testing.T) {
	tests := []struct {
		name     string
		prices   []int
		capacity int
		want     []int
	}{
		{
			name:     "reuses items",
			prices:   []int{3, 5},
			capacity: 10,
			want:     []int{0, 0, 0, 3, 3, 5, 6, 6, 8, 9, 10},
		},
		{
			name:     "zero price contributes nothing",
			prices:   []int{0, 4},
			capacity: 5,
			want:     []int{0, 0, 0, 0, 4, 4},
		},
		{
			name:     "zero capacity",
			prices:   []int{1},
			capacity: 0,
			want:     []int{0},
		},
		{
			name:     "empty menu",
			prices:   nil,
			capacity: 3,
			want:     []int{0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newUnboundedTable(priced(tt.prices...), tt.capacity)
			require.Equal(t, tt.capacity, tbl.capacity())
			assert.Equal(t, tt.want, tableValues(tbl))
		})
	}
}

func TestBoundedTable(t *testing.T) {
	tests := []struct {
		name     string
		prices   []int
		capacity int
		want     []int
	}{
		{
			name:     "each item at most once",
			prices:   []int{3, 5},
			capacity: 10,
			want:     []int{0, 0, 0, 3, 3, 5, 5, 5, 8, 8, 8},
		},
		{
			name:     "repeated prices are separate items",
			prices:   []int{2, 2},
			capacity: 5,
			want:     []int{0, 0, 2, 2, 4, 4},
		},
		{
			name:     "zero price contributes nothing",
			prices:   []int{0, 4},
			capacity: 5,
			want:     []int{0, 0, 0, 0, 4, 4},
		},
		{
			name:     "empty menu",
			prices:   nil,
			capacity: 2,
			want:     []int{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newBoundedTable(priced(tt.prices...), tt.capacity)
			require.Equal(t, tt.capacity, tbl.capacity())
			assert.Equal(t, tt.want, tableValues(tbl))
		})
	}
}

func TestBoundedTableRows(t *testing.T) {
	tbl := newBoundedTable(priced(3, 5), 8)

	for w := 0; w <= 8; w++ {
		assert.Zero(t, tbl.at(0, w), "row 0 must be empty at capacity %d", w)
	}
	// only the first item is available in row 1
	assert.Equal(t, 0, tbl.at(1, 2))
	assert.Equal(t, 3, tbl.at(1, 3))
	assert.Equal(t, 3, tbl.at(1, 8))
	assert.Equal(t, 8, tbl.at(2, 8))
}
