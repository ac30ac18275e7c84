package gridwalk

// Regions partitions the cells of a w×h grid for which include is true into
// 4-connected regions. Regions are returned in scan order (row-major by first
// cell) and each region lists its cells in breadth-first order.
func Regions(w, h int, include func(x, y int) bool) [][]Point {
	if w <= 0 || h <= 0 {
		return nil
	}
	visited := make([]bool, w*h)
	var regions [][]Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !include(x, y) {
				continue
			}
			regions = append(regions, flood(w, h, x, y, include, visited))
		}
	}
	return regions
}

// Flood returns the 4-connected region containing (x, y). It returns nil when
// the start cell is out of range or excluded.
func Flood(w, h, x, y int, include func(x, y int) bool) []Point {
	if x < 0 || y < 0 || x >= w || y >= h || !include(x, y) {
		return nil
	}
	return flood(w, h, x, y, include, make([]bool, w*h))
}

var neighbours4 = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func flood(w, h, x, y int, include func(x, y int) bool, visited []bool) []Point {
	region := []Point{{x, y}}
	visited[y*w+x] = true
	for i := 0; i < len(region); i++ {
		p := region[i]
		for _, d := range neighbours4 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			idx := ny*w + nx
			if visited[idx] || !include(nx, ny) {
				continue
			}
			visited[idx] = true
			region = append(region, Point{nx, ny})
		}
	}
	return region
}
