package utils

import (
	"fmt"
	"image/color"
	"regexp"
)

var colourPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColourValidate accepts #rrggbb and #rrggbbaa.
func ColourValidate(c string) bool {
	return colourPattern.MatchString(c)
}

// ColourParse reads a colour ColourValidate accepted. Alpha defaults to
// opaque.
func ColourParse(s string) (c color.RGBA) {
	c.A = 255
	if len(s) == 7 {
		fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
		return
	}
	fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	return
}
