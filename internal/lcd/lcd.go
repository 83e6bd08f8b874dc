// Package lcd emulates a character display that is fed through fixed-size
// text buffers, the way a microcontroller drives an HD44780 module.
package lcd

import (
	"bytes"
	"fmt"
)

// Source renders a parameter name and value into caller buffers, writing a
// NUL terminator and returning the text length.
type Source interface {
	ParamString(buf []byte) int
	ValueString(buf []byte) int
}

// Layout selects how rows are arranged on the display.
type Layout int

const (
	// LayoutDetail shows the focused row's name on one line and its value
	// on the next.
	LayoutDetail Layout = iota
	// LayoutList shows one row per line with a focus marker.
	LayoutList
)

func (l Layout) String() string {
	switch l {
	case LayoutDetail:
		return "detail"
	case LayoutList:
		return "list"
	default:
		return "unknown"
	}
}

// ParseLayout maps a config string to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "detail", "":
		return LayoutDetail, nil
	case "list":
		return LayoutList, nil
	default:
		return 0, fmt.Errorf("unknown lcd layout %q", s)
	}
}

const (
	minCols       = 4
	maxValueWidth = 9 // longest label, "PulseSine"
	focusMarker   = '>'
)

// Display is a Cols x Rows character frame.
type Display struct {
	cols, rows int
	layout     Layout
	frame      [][]byte
	buf        []byte
}

// New creates a blank display.
func New(cols, rows int, layout Layout) (*Display, error) {
	if cols < minCols || rows < 1 {
		return nil, fmt.Errorf("lcd: invalid geometry %dx%d", cols, rows)
	}
	if layout == LayoutDetail && rows < 2 {
		return nil, fmt.Errorf("lcd: detail layout needs 2 rows, got %d", rows)
	}
	d := &Display{
		cols:   cols,
		rows:   rows,
		layout: layout,
		frame:  make([][]byte, rows),
		buf:    make([]byte, cols+1),
	}
	for i := range d.frame {
		d.frame[i] = make([]byte, cols)
	}
	d.Clear()
	return d, nil
}

func (d *Display) Cols() int      { return d.cols }
func (d *Display) Rows() int      { return d.rows }
func (d *Display) Layout() Layout { return d.layout }

// Lines reports how many parameter rows one frame can show.
func (d *Display) Lines() int {
	if d.layout == LayoutDetail {
		return 1
	}
	return d.rows
}

// Clear blanks the frame.
func (d *Display) Clear() {
	for _, line := range d.frame {
		for i := range line {
			line[i] = ' '
		}
	}
}

// Render redraws the frame from rows, with rows[focus] highlighted.
// focus may be -1.
func (d *Display) Render(rows []Source, focus int) {
	d.Clear()
	switch d.layout {
	case LayoutDetail:
		if focus < 0 || focus >= len(rows) {
			return
		}
		d.put(0, 0, d.cols, rows[focus].ParamString)
		d.putRight(1, d.cols, rows[focus].ValueString)
	case LayoutList:
		vw := min(maxValueWidth, d.cols/2)
		nw := d.cols - 1 - vw - 1
		for i, src := range rows {
			if i >= d.rows {
				break
			}
			if i == focus {
				d.frame[i][0] = focusMarker
			}
			d.put(i, 1, nw, src.ParamString)
			d.putRight(i, vw, src.ValueString)
		}
	}
}

// put writes up to width bytes at column col of line.
func (d *Display) put(line, col, width int, render func([]byte) int) {
	n := render(d.buf[:width+1])
	copy(d.frame[line][col:], d.buf[:n])
}

// putRight writes up to width bytes right-aligned on line.
func (d *Display) putRight(line, width int, render func([]byte) int) {
	n := render(d.buf[:width+1])
	copy(d.frame[line][d.cols-n:], d.buf[:n])
}

// Text returns the frame as one string per display line.
func (d *Display) Text() []string {
	out := make([]string, len(d.frame))
	for i, line := range d.frame {
		out[i] = string(line)
	}
	return out
}

// String renders the frame with newlines between lines.
func (d *Display) String() string {
	return string(bytes.Join(d.frame, []byte{'\n'}))
}
