package document

import (
	"errors"
	"fmt"
	"slices"
)

var ErrDuplicateID = errors.New("duplicate shape id")

// Scene is the ordered list of shapes. Later shapes are drawn on top.
//
// The functions below never modify their input; each returns a new Scene so
// callers can hold on to earlier snapshots. Callers generate fresh ids.
type Scene []Shape

func AddShape(scene Scene, shape Shape) Scene {
	out := make(Scene, 0, len(scene)+1)
	out = append(out, scene...)
	return append(out, shape)
}

// UpdateShape applies patch to the shape with the given id. An unknown id is a no-op.
func UpdateShape(scene Scene, id string, patch ShapePatch) Scene {
	i := indexOf(scene, id)
	if i < 0 {
		return scene
	}
	out := slices.Clone(scene)
	out[i] = patch.Apply(out[i])
	return out
}

// ReplaceShape swaps in shape for the element with the same id, keeping its
// position in the z-order. An unknown id is a no-op.
func ReplaceShape(scene Scene, shape Shape) Scene {
	i := indexOf(scene, shape.ID)
	if i < 0 {
		return scene
	}
	out := slices.Clone(scene)
	out[i] = shape
	return out
}

// RemoveShape drops the shape with the given id. An unknown id is a no-op.
func RemoveShape(scene Scene, id string) Scene {
	i := indexOf(scene, id)
	if i < 0 {
		return scene
	}
	out := make(Scene, 0, len(scene)-1)
	out = append(out, scene[:i]...)
	return append(out, scene[i+1:]...)
}

// ReplaceAll returns a copy of shapes as the new scene.
func ReplaceAll(_ Scene, shapes []Shape) Scene {
	return slices.Clone(Scene(shapes))
}

func FindShape(scene Scene, id string) (Shape, bool) {
	i := indexOf(scene, id)
	if i < 0 {
		return Shape{}, false
	}
	return scene[i], true
}

// Map returns a new scene with fn applied to every shape.
func Map(scene Scene, fn func(Shape) Shape) Scene {
	out := make(Scene, len(scene))
	for i, s := range scene {
		out[i] = fn(s)
	}
	return out
}

// Equal reports whether two scenes hold the same shapes in the same order.
// A nil scene equals an empty one.
func Equal(a, b Scene) bool {
	return slices.Equal(a, b)
}

func (s Scene) IDs() []string {
	ids := make([]string, len(s))
	for i, shape := range s {
		ids[i] = shape.ID
	}
	return ids
}

// Validate checks that every id in the scene is unique.
func (s Scene) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, shape := range s {
		if _, ok := seen[shape.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, shape.ID)
		}
		seen[shape.ID] = struct{}{}
	}
	return nil
}

func indexOf(scene Scene, id string) int {
	return slices.IndexFunc(scene, func(s Shape) bool { return s.ID == id })
}
