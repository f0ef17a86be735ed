// pkg/physics/collision.go
package physics

// Rect is an axis-aligned rectangle described by its top-left corner.
type Rect struct {
	Min    Vector2D
	Width  float64
	Height float64
}

// RectAround returns the rectangle of the given size centred on center.
func RectAround(center Vector2D, width, height float64) Rect {
	return Rect{
		Min:    Vector2D{X: center.X - width/2, Y: center.Y - height/2},
		Width:  width,
		Height: height,
	}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Min.X + r.Width, Y: r.Min.Y + r.Height}
}

// Center returns the centre point of the rectangle.
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.Min.X + r.Width/2, Y: r.Min.Y + r.Height/2}
}

// Contains reports whether point lies inside r. The top and left edges are
// inclusive, the bottom and right edges exclusive.
func (r Rect) Contains(point Vector2D) bool {
	hi := r.Max()
	return point.X >= r.Min.X && point.X < hi.X &&
		point.Y >= r.Min.Y && point.Y < hi.Y
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	a, b := r.Max(), other.Max()
	return r.Min.X < b.X && other.Min.X < a.X &&
		r.Min.Y < b.Y && other.Min.Y < a.Y
}

// QuadTree indexes points for coarse area queries.
type QuadTree[T any] struct {
	Boundary Rect
	Capacity int
	Points   []Vector2D
	Objects  []T
	Divided  bool
	children [4]*QuadTree[T]
}

// NewQuadTree creates an empty tree over boundary that splits once a node
// holds more than capacity points.
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Objects:  make([]T, 0, capacity),
	}
}

// Insert stores object at point. It returns false if point is outside the
// tree's boundary.
func (qt *QuadTree[T]) Insert(point Vector2D, object T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if len(qt.Points) < qt.Capacity && !qt.Divided {
		qt.Points = append(qt.Points, point)
		qt.Objects = append(qt.Objects, object)
		return true
	}

	if !qt.Divided {
		qt.subdivide()
	}

	for _, child := range qt.children {
		if child.Insert(point, object) {
			return true
		}
	}
	return false
}

func (qt *QuadTree[T]) subdivide() {
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2
	x, y := qt.Boundary.Min.X, qt.Boundary.Min.Y

	qt.children = [4]*QuadTree[T]{
		NewQuadTree[T](Rect{Min: Vector2D{X: x, Y: y}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Min: Vector2D{X: x + w, Y: y}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Min: Vector2D{X: x, Y: y + h}, Width: w, Height: h}, qt.Capacity),
		NewQuadTree[T](Rect{Min: Vector2D{X: x + w, Y: y + h}, Width: w, Height: h}, qt.Capacity),
	}
	qt.Divided = true
}

// Query returns every object whose point lies inside area.
func (qt *QuadTree[T]) Query(area Rect) []T {
	var found []T
	qt.query(area, &found)
	return found
}

func (qt *QuadTree[T]) query(area Rect, found *[]T) {
	if !qt.Boundary.Intersects(area) {
		return
	}

	for i, point := range qt.Points {
		if area.Contains(point) {
			*found = append(*found, qt.Objects[i])
		}
	}

	if !qt.Divided {
		return
	}
	for _, child := range qt.children {
		child.query(area, found)
	}
}
