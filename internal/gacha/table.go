package gacha

import (
	"mcp-menu-gacha/internal/models"
)

// table reports, for every capacity w in [0, capacity()], the largest total
// of item prices that does not exceed w. value(w) may be less than w when w
// itself is not reachable.
type table interface {
	capacity() int
	value(w int) int
}

// unboundedTable is the knapsack table for pulls that may repeat items.
type unboundedTable struct {
	items []models.MenuItem
	best  []int
}

func newUnboundedTable(items []models.MenuItem, capacity int) *unboundedTable {
	best := make([]int, capacity+1)
	for w := 1; w <= capacity; w++ {
		for _, item := range items {
			if item.Price > w {
				continue
			}
			if v := best[w-item.Price] + item.Price; v > best[w] {
				best[w] = v
			}
		}
	}
	return &unboundedTable{items: items, best: best}
}

func (t *unboundedTable) capacity() int { return len(t.best) - 1 }

func (t *unboundedTable) value(w int) int { return t.best[w] }

// boundedTable is the 0/1 knapsack table: row i covers the first i items.
// Rows are stored back to back in cells, each width wide.
type boundedTable struct {
	items []models.MenuItem
	width int
	cells []int
}

func newBoundedTable(items []models.MenuItem, capacity int) *boundedTable {
	width := capacity + 1
	cells := make([]int, (len(items)+1)*width)
	for i := 1; i <= len(items); i++ {
		price := items[i-1].Price
		prev := cells[(i-1)*width : i*width]
		row := cells[i*width : (i+1)*width]
		for w := range row {
			row[w] = prev[w]
			if price > w {
				continue
			}
			if v := prev[w-price] + price; v > row[w] {
				row[w] = v
			}
		}
	}
	return &boundedTable{items: items, width: width, cells: cells}
}

func (t *boundedTable) capacity() int { return t.width - 1 }

func (t *boundedTable) value(w int) int { return t.at(len(t.items), w) }

func (t *boundedTable) at(i, w int) int { return t.cells[i*t.width+w] }
