package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/battlesnakeio/snake/rules"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	st := rules.State{
		Size:      rules.GridSize,
		Snake:     []rules.Point{{X: 9, Y: 8}, {X: 8, Y: 8}},
		Food:      rules.Point{X: 2, Y: 3},
		Direction: rules.Right,
		Score:     1,
	}

	buf := &bytes.Buffer{}
	require.NoError(t, PNG(buf, st, 10))

	img, err := png.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, 20*10+2*border, img.Bounds().Dx())
	require.Equal(t, 20*10+2*border+headerHeight, img.Bounds().Dy())
}

func TestBoardColors(t *testing.T) {
	st := rules.State{
		Size:  4,
		Snake: []rules.Point{{X: 1, Y: 1}},
		Food:  rules.Point{X: 2, Y: 2},
	}
	img := Board(st, 20).Image()

	center := func(p rules.Point) (int, int) {
		return border + p.X*20 + 10, headerHeight + border + p.Y*20 + 10
	}

	x, y := center(rules.Point{X: 1, Y: 1})
	r, g, b, _ := img.At(x, y).RGBA()
	require.Equal(t, uint32(0x4c), r>>8)
	require.Equal(t, uint32(0xaf), g>>8)
	require.Equal(t, uint32(0x50), b>>8)

	x, y = center(rules.Point{X: 2, Y: 2})
	r, g, b, _ = img.At(x, y).RGBA()
	require.Equal(t, uint32(0xff), r>>8)
	require.Equal(t, uint32(0x52), g>>8)
	require.Equal(t, uint32(0x52), b>>8)

	x, y = center(rules.Point{X: 3, Y: 0})
	r, g, b, _ = img.At(x, y).RGBA()
	require.Equal(t, uint32(0xff), r>>8)
	require.Equal(t, uint32(0xff), g>>8)
	require.Equal(t, uint32(0xff), b>>8)
}
