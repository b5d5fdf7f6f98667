package advanced

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	arena, poly, err := Normalize(Dart())
	require.NoError(t, err)
	assert.Equal(t, []VertexClass{Convex, Convex, Convex, Reflex, Convex}, Classify(arena, poly))
	assert.Equal(t, []int{3}, ReflexVertices(arena, poly))
	assert.False(t, IsConvex(arena, poly))
	assert.Equal(t, "reflex", Reflex.String())
}

func TestClassify_Collinear(t *testing.T) {
	// The vertex in the middle of the bottom edge is straight, which counts as
	// convex
	arena, poly, err := Normalize(points(0, 0, 1, 0, 2, 0, 2, 2, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, ReflexVertices(arena, poly))
	assert.True(t, IsConvex(arena, poly))
}

func TestReflexVertices(t *testing.T) {
	arena, poly, err := Normalize(Notch())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 11}, ReflexVertices(arena, poly))

	// Winding is taken care of by normalization
	arena, poly, err = Normalize(reversed(UShape()))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, ReflexVertices(arena, poly))
}

func TestReflexVertices_Star(t *testing.T) {
	arena, poly, err := Normalize(SimpleStar())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7, 9}, ReflexVertices(arena, poly))
}
