package canvas

// Scene is the ordered shape collection. Later shapes are drawn on top.
type Scene struct {
	shapes []Shape
}

func (sc *Scene) Len() int { return len(sc.shapes) }

// Shapes returns a copy in z-order.
func (sc *Scene) Shapes() []Shape {
	out := make([]Shape, len(sc.shapes))
	copy(out, sc.shapes)
	return out
}

func (sc *Scene) add(s Shape) {
	sc.shapes = append(sc.shapes, s)
}

func (sc *Scene) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range sc.shapes {
		if sc.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

func (sc *Scene) Get(id string) (Shape, bool) {
	i := sc.index(id)
	if i < 0 {
		return Shape{}, false
	}
	return sc.shapes[i], true
}

// update applies fn to the shape with the given id in place.
func (sc *Scene) update(id string, fn func(*Shape)) bool {
	i := sc.index(id)
	if i < 0 {
		return false
	}
	fn(&sc.shapes[i])
	return true
}

// HitTest returns the topmost shape containing the scene point.
func (sc *Scene) HitTest(p Point) (Shape, bool) {
	for i := len(sc.shapes) - 1; i >= 0; i-- {
		if sc.shapes[i].Contains(p) {
			return sc.shapes[i], true
		}
	}
	return Shape{}, false
}

func (sc *Scene) clear() {
	sc.shapes = nil
}
