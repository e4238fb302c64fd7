// Package render draws a game state as an image.
package render

import (
	"fmt"
	"io"

	"github.com/battlesnakeio/snake/rules"
	"github.com/fogleman/gg"
)

const (
	headerHeight = 30
	border       = 4

	snakeColor  = "#4caf50"
	foodColor   = "#ff5252"
	emptyColor  = "#ffffff"
	gridColor   = "#cccccc"
	borderColor = "#222222"
	textColor   = "#333333"
	overColor   = "#ff0000"
)

// Board draws st as a grid of cellSize pixel cells with the score above it.
func Board(st rules.State, cellSize int) *gg.Context {
	size := st.Size
	if size <= 0 {
		size = rules.GridSize
	}
	boardPx := size * cellSize
	dc := gg.NewContext(boardPx+2*border, boardPx+2*border+headerHeight)

	dc.SetHexColor(emptyColor)
	dc.Clear()

	status := fmt.Sprintf("Score: %d", st.Score)
	if st.GameOver {
		dc.SetHexColor(overColor)
		status += "  Game Over!"
	} else {
		dc.SetHexColor(textColor)
	}
	dc.DrawStringAnchored(status, float64(dc.Width())/2, headerHeight/2, 0.5, 0.5)

	top := float64(headerHeight + border)
	left := float64(border)

	dc.SetHexColor(borderColor)
	dc.DrawRectangle(0, headerHeight, float64(boardPx+2*border), float64(boardPx+2*border))
	dc.Fill()
	dc.SetHexColor(emptyColor)
	dc.DrawRectangle(left, top, float64(boardPx), float64(boardPx))
	dc.Fill()

	renderGrid(dc, left, top, size, cellSize)

	cs := float64(cellSize)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cx := left + float64(x)*cs
			cy := top + float64(y)*cs
			switch st.CellAt(rules.Point{X: x, Y: y}) {
			case rules.CellSnake:
				dc.SetHexColor(snakeColor)
				dc.DrawCircle(cx+cs/2, cy+cs/2, cs/2-1)
				dc.Fill()
			case rules.CellFood:
				dc.SetHexColor(foodColor)
				dc.DrawRoundedRectangle(cx+1, cy+1, cs-2, cs-2, 4)
				dc.Fill()
			}
		}
	}
	return dc
}

// PNG writes the board image for st to w.
func PNG(w io.Writer, st rules.State, cellSize int) error {
	return Board(st, cellSize).EncodePNG(w)
}

func renderGrid(dc *gg.Context, left, top float64, size, cellSize int) {
	dc.SetHexColor(gridColor)
	dc.SetLineWidth(1)
	extent := float64(size * cellSize)
	for i := 0; i <= size; i++ {
		o := float64(i * cellSize)
		dc.DrawLine(left+o, top, left+o, top+extent)
		dc.Stroke()
		dc.DrawLine(left, top+o, left+extent, top+o)
		dc.Stroke()
	}
}
