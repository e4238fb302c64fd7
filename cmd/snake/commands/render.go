package commands

import (
	"fmt"

	"github.com/battlesnakeio/snake/rules"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	foodColor    = termbox.ColorRed
)

const (
	left = 2
	top  = 2
)

// render draws the board with a status line above it and help text below.
// Each cell is two columns wide so the board looks square.
func render(st rules.State, title, help string) error {
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	size := st.Size
	if size <= 0 {
		size = rules.GridSize
	}

	renderTitle(st, title)
	renderBoard(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := rules.Point{X: x, Y: y}
			switch st.CellAt(p) {
			case rules.CellSnake:
				setCell(p, ' ', snakeColor, snakeColor)
			case rules.CellFood:
				setCell(p, '●', foodColor, bgColor)
			}
		}
	}
	tbprint(left-1, top+size+2, defaultColor, defaultColor, help)

	return termbox.Flush()
}

func setCell(p rules.Point, ch rune, fg, bg termbox.Attribute) {
	x := left + p.X*2
	y := top + p.Y + 1
	termbox.SetCell(x, y, ch, fg, bg)
	termbox.SetCell(x+1, y, ' ', fg, bg)
}

func renderTitle(st rules.State, title string) {
	text := fmt.Sprintf("%s - Score: %d - Turn %d", title, st.Score, st.Turn)
	if st.GameOver {
		text = fmt.Sprintf("%s - Game Over! (%s)", text, st.Cause)
	}
	tbprint(left-1, top-1, defaultColor, defaultColor, text)
}

func renderBoard(size int) {
	width := size * 2
	bottom := top + size + 1
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+width, top, '┐', defaultColor, bgColor)
	termbox.SetCell(left+width, bottom, '┘', defaultColor, bgColor)

	fill(left, top, width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, width, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}

// keyDirection maps arrow keys to directions.
func keyDirection(ev termbox.Event) (rules.Direction, bool) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return rules.Up, true
	case termbox.KeyArrowDown:
		return rules.Down, true
	case termbox.KeyArrowLeft:
		return rules.Left, true
	case termbox.KeyArrowRight:
		return rules.Right, true
	}
	return rules.Direction{}, false
}

func isQuit(ev termbox.Event) bool {
	return ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q'
}

func isReset(ev termbox.Event) bool {
	return ev.Ch == 'r' || ev.Ch == 'R'
}
