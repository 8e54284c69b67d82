package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene() Scene {
	style := DefaultStyle()
	return Scene{
		NewRect("a", 0, 0, 10, 10, style),
		NewCircle("b", 5, 5, 3, style),
		NewText("c", 1, 1, PlaceholderText, style),
	}
}

func TestAddShape_AppendsOnTop(t *testing.T) {
	scene := sampleScene()
	next := AddShape(scene, NewRect("d", 1, 2, 3, 4, DefaultStyle()))

	assert.Len(t, scene, 3, "input must not change")
	assert.Equal(t, []string{"a", "b", "c", "d"}, next.IDs())
}

func TestUpdateShape(t *testing.T) {
	scene := sampleScene()
	next := UpdateShape(scene, "b", ShapePatch{Radius: Float(9), Fill: String("red")})

	got, ok := FindShape(next, "b")
	require.True(t, ok)
	assert.Equal(t, 9.0, got.Radius)
	assert.Equal(t, "red", got.Fill)
	assert.Equal(t, 5.0, got.X)

	orig, _ := FindShape(scene, "b")
	assert.Equal(t, 3.0, orig.Radius, "input must not change")
}

func TestUpdateShape_UnknownIDIsNoop(t *testing.T) {
	scene := sampleScene()
	next := UpdateShape(scene, "missing", ShapePatch{X: Float(1)})
	assert.True(t, Equal(scene, next))
}

func TestShapePatch_ClampsStrokeWidth(t *testing.T) {
	s := ShapePatch{StrokeWidth: Float(-3)}.Apply(NewRect("a", 0, 0, 1, 1, DefaultStyle()))
	assert.Equal(t, 0.0, s.StrokeWidth)
}

func TestRemoveShape_PreservesOrder(t *testing.T) {
	scene := sampleScene()
	next := RemoveShape(scene, "b")

	assert.Equal(t, []string{"a", "c"}, next.IDs())
	assert.Equal(t, []string{"a", "b", "c"}, scene.IDs())
	assert.True(t, Equal(scene, RemoveShape(scene, "missing")))
}

func TestReplaceShape_KeepsZOrder(t *testing.T) {
	scene := sampleScene()
	moved := scene[0]
	moved.X = 42
	next := ReplaceShape(scene, moved)

	assert.Equal(t, scene.IDs(), next.IDs())
	assert.Equal(t, 42.0, next[0].X)
	assert.Equal(t, 0.0, scene[0].X)
}

func TestReplaceAll(t *testing.T) {
	shapes := []Shape{NewRect("x", 0, 0, 1, 1, DefaultStyle())}
	next := ReplaceAll(sampleScene(), shapes)
	assert.Equal(t, []string{"x"}, next.IDs())

	shapes[0].ID = "changed"
	assert.Equal(t, "x", next[0].ID, "result must not alias input")

	assert.Empty(t, ReplaceAll(sampleScene(), nil))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, Scene{}))
	assert.True(t, Equal(sampleScene(), sampleScene()))

	other := sampleScene()
	other[1].Fill = Transparent
	assert.False(t, Equal(sampleScene(), other))
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleScene().Validate())

	dup := AddShape(sampleScene(), NewRect("a", 0, 0, 1, 1, DefaultStyle()))
	err := dup.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestIDsStayUnique(t *testing.T) {
	scene := Scene{}
	for i := range 20 {
		id := fmt.Sprintf("s%d", i)
		scene = AddShape(scene, NewRect(id, float64(i), 0, 1, 1, DefaultStyle()))
		if i%3 == 0 {
			scene = UpdateShape(scene, id, ShapePatch{Width: Float(5)})
		}
		if i%4 == 0 {
			scene = RemoveShape(scene, id)
		}
		require.NoError(t, scene.Validate())
	}
}

func TestNewSampleScene(t *testing.T) {
	scene := NewSampleScene()
	require.NoError(t, scene.Validate())
	assert.NotEmpty(t, scene)
}
