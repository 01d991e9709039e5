package vision

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// moore lists the 8 neighbor offsets clockwise (Y down), starting west.
var moore = [8]image.Point{
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
}

// traceContours returns the outer boundary of every 8-connected edge
// region.
//
// Regions are labeled with an iterative flood fill. Each region's boundary
// is then walked with Moore-neighbor tracing from its topmost-leftmost
// pixel, which yields an ordered, closed point sequence whose shoelace area
// is the area enclosed by the region. Holes are not reported.
func traceContours(edges *imaging.EdgeMap) []geometry.Contour {
	w, h := edges.Width, edges.Height
	labels := make([]int32, w*h)
	contours := make([]geometry.Contour, 0)

	label := int32(0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if edges.Pix[i] == 0 || labels[i] != 0 {
				continue
			}
			label++
			size := floodFill(edges, labels, x, y, label)
			c := traceBoundary(labels, w, h, image.Pt(x, y), label, size)
			if len(c) > 1 {
				contours = append(contours, c)
			}
		}
	}
	return contours
}

// floodFill labels the 8-connected edge region containing (startX, startY)
// and returns its pixel count.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large regions.
func floodFill(edges *imaging.EdgeMap, labels []int32, startX, startY int, label int32) int {
	w, h := edges.Width, edges.Height
	stack := []int{startY*w + startX}
	labels[startY*w+startX] = label
	size := 0

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++

		x, y := i%w, i/w
		for _, d := range moore {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if edges.Pix[j] != 0 && labels[j] == 0 {
				labels[j] = label
				stack = append(stack, j)
			}
		}
	}
	return size
}

// traceBoundary walks the outer boundary of the region with the given label
// clockwise from start, which must be the region's first pixel in raster
// order. The walk stops when it re-enters start heading to the same pixel it
// first moved to.
func traceBoundary(labels []int32, w, h int, start image.Point, label int32, size int) geometry.Contour {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == label
	}

	contour := geometry.Contour{start}
	cur := start
	// start is first in raster order, so its west neighbor is outside
	back := 0
	var second image.Point

	limit := 4*size + 8
	for step := 0; step < limit; step++ {
		found := -1
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			if inside(cur.Add(moore[d])) {
				found = d
				break
			}
		}
		if found < 0 {
			break
		}

		next := cur.Add(moore[found])
		if step > 0 && cur == start && next == second {
			break
		}
		if step == 0 {
			second = next
		}

		// the last outside pixel examined becomes the new backtrack
		prev := cur.Add(moore[(found+7)%8])
		back = direction(prev.Sub(next))
		cur = next
		contour = append(contour, cur)
	}

	if n := len(contour); n > 1 && contour[n-1] == contour[0] {
		contour = contour[:n-1]
	}
	return contour
}

// direction returns the index in moore of a unit offset.
func direction(d image.Point) int {
	for i, m := range moore {
		if m == d {
			return i
		}
	}
	return 0
}
