package turtlescript

import "math"

// roundCell rounds half up, so -2.5 becomes -2 and 2.5 becomes 3
func roundCell(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RasterLine walks the 8-connected Bresenham line between the cells nearest
// to (x0,y0) and (x1,y1), visiting each cell once, endpoints included.
func RasterLine(x0, y0, x1, y1 float64, visit func(x, y int)) {
	cx, cy := roundCell(x0), roundCell(y0)
	ex, ey := roundCell(x1), roundCell(y1)

	dx := abs(ex - cx)
	dy := -abs(ey - cy)
	sx, sy := 1, 1
	if cx > ex {
		sx = -1
	}
	if cy > ey {
		sy = -1
	}
	err := dx + dy

	// Chebyshev distance bounds the walk
	steps := max(dx, -dy)
	for i := 0; i <= steps; i++ {
		visit(cx, cy)
		if cx == ex && cy == ey {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			cx += sx
		}
		if e2 <= dx {
			err += dx
			cy += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
