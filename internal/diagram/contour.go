package diagram

import "sort"

// Point is a location on the T-S plane.
type Point struct {
	Salinity    float64 `json:"salinity"`
	Temperature float64 `json:"temperature"`
}

// Isoline traces the level set of the field at level using marching
// squares. Each returned path is an ordered polyline; closed loops repeat
// their first point at the end.
func (f *Field) Isoline(level float64) [][]Point {
	rows, cols := f.Values.Dims()
	if rows < 2 || cols < 2 {
		return nil
	}

	points := make(map[int]Point)
	var segs [][2]int

	// Crossing points are keyed by the grid edge they sit on so that
	// neighbouring cells share them.
	hEdge := func(i, j int) int { return (i*cols + j) * 2 }
	vEdge := func(i, j int) int { return (i*cols+j)*2 + 1 }

	crossing := func(id, i1, j1, i2, j2 int) bool {
		v1, v2 := f.Values.At(i1, j1), f.Values.At(i2, j2)
		if (v1 >= level) == (v2 >= level) {
			return false
		}
		if _, ok := points[id]; !ok {
			t := (level - v1) / (v2 - v1)
			points[id] = Point{
				Salinity:    f.Salinity[j1] + t*(f.Salinity[j2]-f.Salinity[j1]),
				Temperature: f.Temperature[i1] + t*(f.Temperature[i2]-f.Temperature[i1]),
			}
		}
		return true
	}

	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols-1; j++ {
			bottom, right, top, left := hEdge(i, j), vEdge(i, j+1), hEdge(i+1, j), vEdge(i, j)

			var cut []int
			if crossing(bottom, i, j, i, j+1) {
				cut = append(cut, bottom)
			}
			if crossing(right, i, j+1, i+1, j+1) {
				cut = append(cut, right)
			}
			if crossing(top, i+1, j, i+1, j+1) {
				cut = append(cut, top)
			}
			if crossing(left, i, j, i+1, j) {
				cut = append(cut, left)
			}

			switch len(cut) {
			case 2:
				segs = append(segs, [2]int{cut[0], cut[1]})
			case 4:
				// Saddle: the corners on the opposite side of the cell
				// centre from the bottom-left corner are cut off.
				a := f.Values.At(i, j)
				centre := (a + f.Values.At(i, j+1) + f.Values.At(i+1, j+1) + f.Values.At(i+1, j)) / 4
				if (centre >= level) == (a >= level) {
					segs = append(segs, [2]int{bottom, right}, [2]int{top, left})
				} else {
					segs = append(segs, [2]int{left, bottom}, [2]int{right, top})
				}
			}
		}
	}

	var paths [][]Point
	for _, chain := range joinSegments(segs) {
		path := make([]Point, len(chain))
		for k, id := range chain {
			path[k] = points[id]
		}
		paths = append(paths, path)
	}
	return paths
}

// joinSegments links segments that share an endpoint into polylines.
// Every endpoint is shared by at most two segments. Open chains are
// walked from their free ends first, then any remaining closed loops.
func joinSegments(segs [][2]int) [][]int {
	adj := make(map[int][]int, len(segs)*2)
	for k, s := range segs {
		adj[s[0]] = append(adj[s[0]], k)
		adj[s[1]] = append(adj[s[1]], k)
	}
	used := make([]bool, len(segs))

	walk := func(start, k int) []int {
		chain := []int{start}
		cur := start
		for k >= 0 {
			used[k] = true
			next := segs[k][0]
			if next == cur {
				next = segs[k][1]
			}
			chain = append(chain, next)
			cur = next

			k = -1
			for _, c := range adj[cur] {
				if !used[c] {
					k = c
					break
				}
			}
		}
		return chain
	}

	var ends []int
	for id, ks := range adj {
		if len(ks) == 1 {
			ends = append(ends, id)
		}
	}
	sort.Ints(ends)

	var chains [][]int
	for _, id := range ends {
		if k := adj[id][0]; !used[k] {
			chains = append(chains, walk(id, k))
		}
	}
	for k := range segs {
		if !used[k] {
			chains = append(chains, walk(segs[k][0], k))
		}
	}
	return chains
}

// labelAnchor picks the midpoint of the longest path as the place to print
// an isoline's label.
func labelAnchor(paths [][]Point) Point {
	var best []Point
	for _, p := range paths {
		if len(p) > len(best) {
			best = p
		}
	}
	return best[len(best)/2]
}
