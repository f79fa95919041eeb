package geometry

import "github.com/aalavandhaann/mesh-outline/pkg/math"

// Attribute is a flat float32 buffer holding ItemSize components per vertex.
type Attribute struct {
	Array    []float32
	ItemSize int
}

// NewAttribute wraps array as an attribute with itemSize components per vertex.
// The slice is not copied.
func NewAttribute(array []float32, itemSize int) *Attribute {
	return &Attribute{Array: array, ItemSize: itemSize}
}

// Count returns the number of vertices stored.
func (a *Attribute) Count() int {
	if a.ItemSize <= 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

// Vec3 reads the first three components of vertex i.
func (a *Attribute) Vec3(i int) math.Vec3 {
	o := i * a.ItemSize
	return math.Vec3{X: a.Array[o], Y: a.Array[o+1], Z: a.Array[o+2]}
}

// SetVec3 writes the first three components of vertex i.
func (a *Attribute) SetVec3(i int, v math.Vec3) {
	o := i * a.ItemSize
	a.Array[o] = v.X
	a.Array[o+1] = v.Y
	a.Array[o+2] = v.Z
}

// Clone returns a deep copy.
func (a *Attribute) Clone() *Attribute {
	arr := make([]float32, len(a.Array))
	copy(arr, a.Array)
	return &Attribute{Array: arr, ItemSize: a.ItemSize}
}
