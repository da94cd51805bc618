package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"netmap/internal/domain"
	"netmap/internal/view"
)

// Terminal cells are mapped onto renderer pixels at this size
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const (
	edgeRune = '·'
	// wideFiller pads the cell after a double-width rune
	wideFiller = 0
)

type cell struct {
	r     rune
	color string
	bold  bool
}

// Canvas is a character grid a pane frame is painted onto
type Canvas struct {
	width, height int
	cells         [][]cell
}

// NewCanvas creates a blank canvas of width x height cells
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{r: ' '}
		}
	}
	return &Canvas{width: width, height: height, cells: cells}
}

// Size returns the canvas size in cells
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// At returns the rune at a cell, or a space outside the canvas
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	return c.cells[y][x].r
}

func (c *Canvas) set(x, y int, r rune, color string, bold bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, color: color, bold: bold}
}

// ToCell maps a pane pixel to a canvas cell
func ToCell(px, py float64) (int, int) {
	return int(math.Floor(px / CellWidth)), int(math.Floor(py / CellHeight))
}

// ToPixel maps a canvas cell to the pixel at its center
func ToPixel(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// Paint draws edges, then nodes, then labels of a pane frame
func (c *Canvas) Paint(p view.PaneFrame, edgeColor string) {
	t := p.Transform
	for _, e := range p.Edges {
		x1, y1 := ToCell(t.Apply(e.X1, e.Y1))
		x2, y2 := ToCell(t.Apply(e.X2, e.Y2))
		c.line(x1, y1, x2, y2, edgeColor)
	}
	for _, n := range p.Nodes {
		x, y := ToCell(t.Apply(n.X, n.Y))
		c.set(x, y, glyph(n), n.Color, n.Selected)
	}
	for _, n := range p.Nodes {
		x, y := ToCell(t.Apply(n.X, n.Y))
		c.text(x+2, y, n.Label, n.LabelColor, n.Selected)
	}
}

// line draws a Bresenham line, leaving endpoints to the node glyphs
func (c *Canvas) line(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if c.At(x0, y0) == ' ' {
			c.set(x0, y0, edgeRune, color, false)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) text(x, y int, s, color string, bold bool) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > c.width {
			return
		}
		c.set(x, y, r, color, bold)
		if w == 2 {
			c.set(x+1, y, wideFiller, color, bold)
		}
		x += w
	}
}

// glyph picks a node's character by kind; offline nodes are hollow
func glyph(n view.NodeView) rune {
	online := n.Status.Online()
	switch n.Kind {
	case domain.KindCore:
		return '◆'
	case domain.KindGateway:
		if online {
			return '■'
		}
		return '□'
	case domain.KindSwitch:
		if online {
			return '▲'
		}
		return '△'
	default:
		if online {
			return '●'
		}
		return '○'
	}
}

// Render returns the canvas as styled lines
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runColor, runBold := "", false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" && !runBold {
				b.WriteString(run.String())
			} else {
				style := lipgloss.NewStyle().Bold(runBold)
				if runColor != "" {
					style = style.Foreground(lipgloss.Color(runColor))
				}
				b.WriteString(style.Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.r == wideFiller {
				continue
			}
			if cl.color != runColor || cl.bold != runBold {
				flush()
				runColor, runBold = cl.color, cl.bold
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// String returns the canvas without styling
func (c *Canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			if cl.r != wideFiller {
				b.WriteRune(cl.r)
			}
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
