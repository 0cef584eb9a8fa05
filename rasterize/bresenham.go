package rasterize

// bresenhamLine yields every integer cell on the line from (x0,y0) to
// (x1,y1) inclusive, using the standard integer Bresenham algorithm.
// Grounded on other_examples/udisondev-la2go__bresenham.go's
// LineIterator3D, collapsed from 3D to 2D since map boundaries are planar.
func bresenhamLine(x0, y0, x1, y1 int, emit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := 1
	if x1 < x0 {
		sx = -1
	}
	sy := 1
	if y1 < y0 {
		sy = -1
	}

	x, y := x0, y0
	if dx >= dy {
		err := dx / 2
		for i := 0; i <= dx; i++ {
			emit(x, y)
			err -= dy
			if err < 0 {
				y += sy
				err += dx
			}
			x += sx
		}
		return
	}

	err := dy / 2
	for i := 0; i <= dy; i++ {
		emit(x, y)
		err -= dx
		if err < 0 {
			x += sx
			err += dy
		}
		y += sy
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
