// Package grid converts between linear buffer indexes and x/y cell coordinates.
package grid

// GetGridCoords returns the column and row of a row-major index.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Index returns the row-major index of cell (x, y) with wraparound on both
// axes, so negative or oversized coordinates land inside a cols×rows grid.
func Index(x, y, cols, rows int) int {
	x %= cols
	if x < 0 {
		x += cols
	}
	y %= rows
	if y < 0 {
		y += rows
	}
	return y*cols + x
}
