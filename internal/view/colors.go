package view

import (
	"fmt"
	"strconv"
	"strings"
)

// Palette is the set of distinct colors handed out to author and PI labels.
var Palette = [...]string{
	"rgb(255, 99, 71)",   // tomato
	"rgb(34, 139, 34)",   // forest green
	"rgb(30, 144, 255)",  // dodger blue
	"rgb(255, 215, 0)",   // gold
	"rgb(138, 43, 226)",  // blue violet
	"rgb(255, 105, 180)", // hot pink
	"rgb(0, 128, 128)",   // teal
	"rgb(255, 140, 0)",   // dark orange
	"rgb(147, 112, 219)", // medium purple
	"rgb(0, 100, 0)",     // dark green
	"rgb(205, 92, 92)",   // indian red
	"rgb(70, 130, 180)",  // steel blue
	"rgb(218, 112, 214)", // orchid
	"rgb(0, 139, 139)",   // dark cyan
	"rgb(255, 69, 0)",    // red orange
	"rgb(72, 61, 139)",   // dark slate blue
	"rgb(184, 134, 11)",  // dark goldenrod
	"rgb(139, 69, 19)",   // saddle brown
	"rgb(47, 79, 79)",    // dark slate gray
	"rgb(199, 21, 133)",  // medium violet red
}

// ColorAssigner hands out a stable color per label. Each new label gets the
// first palette color not yet in use; once the palette is exhausted, colors
// are palette entries with every channel shifted by 30 per full cycle.
type ColorAssigner struct {
	colors map[string]string
	used   map[string]bool
}

// NewColorAssigner returns an empty assigner.
func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{
		colors: make(map[string]string),
		used:   make(map[string]bool),
	}
}

// Color returns the color for label, assigning one on first use.
func (c *ColorAssigner) Color(label string) string {
	if color, ok := c.colors[label]; ok {
		return color
	}

	color := c.next()
	c.colors[label] = color
	c.used[color] = true
	return color
}

// Len returns the number of labels assigned so far.
func (c *ColorAssigner) Len() int {
	return len(c.colors)
}

func (c *ColorAssigner) next() string {
	for _, color := range Palette {
		if !c.used[color] {
			return color
		}
	}

	n := len(c.colors)
	base := Palette[n%len(Palette)]
	shift := 30 * (n / len(Palette))

	r, g, b, err := parseRGB(base)
	if err != nil {
		// Palette entries are well-formed.
		panic(err)
	}
	return formatRGB((r+shift)%256, (g+shift)%256, (b+shift)%256)
}

func parseRGB(s string) (r, g, b int, err error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed color %q", s)
	}
	var ch [3]int
	for i, p := range parts {
		ch[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("malformed color %q: %w", s, err)
		}
	}
	return ch[0], ch[1], ch[2], nil
}

func formatRGB(r, g, b int) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}
