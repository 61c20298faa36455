// Package palette derives scrim colors from project cover images.
package palette

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ScrimAlpha is the opacity of the scrim's opaque stop
const ScrimAlpha = 0.6

// Color is an 8-bit RGB triple
type Color struct {
	R, G, B uint8
}

// Black is returned whenever an image cannot be sampled
var Black = Color{}

// String formats the color as rgb(r,g,b)
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Hex formats the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA formats the color with the given alpha as rgba(r,g,b,a)
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// MarshalText encodes the color in its rgb() form
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Stop is one color stop of a gradient, Offset in percent
type Stop struct {
	Color  string `json:"color"`
	Offset int    `json:"offset"`
}

// Gradient is a two-stop linear gradient laid over a cover image
type Gradient struct {
	Direction string  `json:"direction"`
	Stops     [2]Stop `json:"stops"`
}

// Scrim builds the legibility gradient for c: the color at 60% alpha at the
// bottom edge fading to fully transparent at the top.
func Scrim(c Color) Gradient {
	return Gradient{
		Direction: "to top",
		Stops: [2]Stop{
			{Color: c.RGBA(ScrimAlpha), Offset: 0},
			{Color: c.RGBA(0), Offset: 100},
		},
	}
}

// DefaultScrim is used when no color has been sampled yet
var DefaultScrim = Gradient{
	Direction: "to top",
	Stops: [2]Stop{
		{Color: Black.RGBA(0.5), Offset: 0},
		{Color: Black.RGBA(0), Offset: 100},
	},
}

// CSS renders the gradient as a CSS linear-gradient() value
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(%s, %s %d%%, %s %d%%)",
		g.Direction, g.Stops[0].Color, g.Stops[0].Offset, g.Stops[1].Color, g.Stops[1].Offset)
}

// MarshalJSON adds the rendered CSS alongside the stops
func (g Gradient) MarshalJSON() ([]byte, error) {
	type plain Gradient
	return json.Marshal(struct {
		plain
		CSS string `json:"css"`
	}{plain(g), g.CSS()})
}
