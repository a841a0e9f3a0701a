package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns a clockwise ring covering [minX, maxX] x [minY, maxY].
func square(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{
		{minX, minY}, {minX, maxY}, {maxX, maxY}, {maxX, minY}, {minX, minY},
	}
}

func reverse(r orb.Ring) orb.Ring {
	out := make(orb.Ring, len(r))
	for i := range r {
		out[len(r)-1-i] = r[i]
	}
	return out
}

func TestNewPoint(t *testing.T) {
	p := NewPoint(-77.5, 25.1)

	assert.Equal(t, -77.5, p.Lon())
	assert.Equal(t, 25.1, p.Lat())
	assert.Equal(t, orb.Point{-77.5, 25.1}, p.Orb())
	assert.True(t, p.Valid())
	assert.False(t, NewPoint(-190, 0).Valid())
	assert.False(t, NewPoint(0, 91).Valid())
	assert.False(t, Point{}.Valid())
}

func TestNewShape_RejectsUnsupported(t *testing.T) {
	_, err := NewShape(orb.Point{1, 2})
	assert.Error(t, err)

	_, err = NewShape(nil)
	assert.ErrorIs(t, err, ErrEmptyShape)

	_, err = NewShape(orb.Polygon{})
	assert.ErrorIs(t, err, ErrEmptyShape)
}

func TestShapeContains(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := reverse(square(4, 4, 6, 6))

	s, err := NewShape(orb.Polygon{outer, hole})
	require.NoError(t, err)

	assert.True(t, s.Contains(NewPoint(1, 1)))
	assert.False(t, s.Contains(NewPoint(5, 5)), "point in hole")
	assert.False(t, s.Contains(NewPoint(11, 5)))
	assert.False(t, s.Contains(NewPoint(-1, -1)))
}

func TestShapeContains_MultiPolygon(t *testing.T) {
	s, err := NewShape(orb.MultiPolygon{
		{square(0, 0, 1, 1)},
		{square(5, 5, 6, 6)},
	})
	require.NoError(t, err)

	assert.True(t, s.Contains(NewPoint(0.5, 0.5)))
	assert.True(t, s.Contains(NewPoint(5.5, 5.5)))
	assert.False(t, s.Contains(NewPoint(3, 3)))
}

func TestShapeCentroid(t *testing.T) {
	s, err := NewShape(orb.Polygon{square(-80, 20, -76, 24)})
	require.NoError(t, err)

	c := s.Centroid()
	assert.InDelta(t, -78, c.Lon(), 1e-9)
	assert.InDelta(t, 22, c.Lat(), 1e-9)
}

func TestFromRings(t *testing.T) {
	t.Run("outer and hole", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{square(0, 0, 10, 10), reverse(square(4, 4, 6, 6))})
		require.NoError(t, err)

		p, ok := g.(orb.Polygon)
		require.True(t, ok)
		assert.Len(t, p, 2)
	})

	t.Run("two outers", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{square(0, 0, 1, 1), square(5, 5, 6, 6)})
		require.NoError(t, err)

		mp, ok := g.(orb.MultiPolygon)
		require.True(t, ok)
		assert.Len(t, mp, 2)
	})

	t.Run("leading counter-clockwise ring", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{reverse(square(0, 0, 1, 1))})
		require.NoError(t, err)

		_, ok := g.(orb.Polygon)
		assert.True(t, ok)
	})

	t.Run("hole follows an unrelated outer", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{
			square(0, 0, 10, 10),
			square(20, 20, 30, 30),
			reverse(square(4, 4, 6, 6)),
		})
		require.NoError(t, err)

		mp, ok := g.(orb.MultiPolygon)
		require.True(t, ok)
		require.Len(t, mp, 2)
		assert.Len(t, mp[0], 2)
		assert.Len(t, mp[1], 1)

		s, err := NewShape(g)
		require.NoError(t, err)
		assert.False(t, s.Contains(NewPoint(5, 5)))
		assert.True(t, s.Contains(NewPoint(2, 2)))
		assert.True(t, s.Contains(NewPoint(25, 25)))
	})

	t.Run("hole goes to the smallest containing outer", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{
			square(0, 0, 100, 100),
			square(10, 10, 20, 20),
			reverse(square(14, 14, 16, 16)),
		})
		require.NoError(t, err)

		mp := g.(orb.MultiPolygon)
		assert.Len(t, mp[0], 1)
		assert.Len(t, mp[1], 2)
	})

	t.Run("unclosed ring is closed", func(t *testing.T) {
		g, err := FromRings([]orb.Ring{{{0, 0}, {0, 1}, {1, 1}, {1, 0}}})
		require.NoError(t, err)

		p := g.(orb.Polygon)
		assert.True(t, p[0].Closed())
	})

	t.Run("degenerate", func(t *testing.T) {
		_, err := FromRings([]orb.Ring{{{0, 0}, {1, 1}}})
		assert.ErrorIs(t, err, ErrEmptyShape)
	})
}

func TestMerge(t *testing.T) {
	a, err := NewShape(orb.Polygon{square(0, 0, 1, 1)})
	require.NoError(t, err)
	b, err := NewShape(orb.MultiPolygon{{square(5, 5, 6, 6)}, {square(8, 8, 9, 9)}})
	require.NoError(t, err)

	m, err := Merge(a, b)
	require.NoError(t, err)

	mp, ok := m.Geometry().(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 3)
	assert.True(t, m.Contains(NewPoint(0.5, 0.5)))
	assert.True(t, m.Contains(NewPoint(8.5, 8.5)))
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{9, 9}}, m.Bound())

	_, err = Merge()
	assert.ErrorIs(t, err, ErrEmptyShape)
}
