package render

import (
	"fmt"
	"strings"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses a "#RRGGBB" string.
func ParseHexColor(s string) (RGB, error) {
	var c RGB
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("render: malformed hex color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("render: malformed hex color %q", s)
	}
	return c, nil
}

// Scale multiplies every channel by m, clamping to 255.
func (c RGB) Scale(m float64) RGB {
	return RGB{clampChannel(float64(c.R) * m), clampChannel(float64(c.G) * m), clampChannel(float64(c.B) * m)}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Fixed overlay colors for the known fluid families.
var (
	waterColor = RGB{25, 131, 217}
	lavaColor  = RGB{249, 78, 17}
)

// BlendFluid overlays a fluid color onto the shaded terrain color. The
// blend factor is 1/depth: depth 1 leaves the terrain untouched and deeper
// fluid converges on the pure fluid color. Fluid types that are neither
// water nor lava pass the terrain color through unchanged.
func BlendFluid(terrain RGB, fluidType string, fluidDepth int) RGB {
	if fluidType == "" || fluidDepth == 0 {
		return terrain
	}
	var fluid RGB
	switch {
	case strings.Contains(fluidType, "Water"):
		fluid = waterColor
	case strings.Contains(fluidType, "Lava"):
		fluid = lavaColor
	default:
		return terrain
	}

	depth := float64(fluidDepth)
	if depth < 1 {
		depth = 1
	}
	depthFactor := 1.0 / depth
	return RGB{
		blendChannel(fluid.R, terrain.R, depthFactor),
		blendChannel(fluid.G, terrain.G, depthFactor),
		blendChannel(fluid.B, terrain.B, depthFactor),
	}
}

func blendChannel(fluid, terrain uint8, factor float64) uint8 {
	return clampChannel(float64(fluid) + (float64(terrain)-float64(fluid))*factor)
}
