package render

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses a #rrggbb string, falling back to defaultColor for
// anything it cannot parse. "transparent" yields a fully transparent pixel.
func ParseHexColor(param string, defaultColor color.RGBA) color.RGBA {
	if param == "" {
		return defaultColor
	}
	if strings.EqualFold(param, "transparent") {
		return color.RGBA{0, 0, 0, 0}
	}

	param = strings.TrimPrefix(param, "#")
	if len(param) != 6 {
		return defaultColor
	}

	r, err1 := strconv.ParseUint(param[0:2], 16, 8)
	g, err2 := strconv.ParseUint(param[2:4], 16, 8)
	b, err3 := strconv.ParseUint(param[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return defaultColor
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{r, g, b, 255} }
