package render

import "strings"

// Keyword fallback colors for block names missing from the properties
// table. Checked in order; first hit wins.
var keywordColors = []struct {
	keywords []string
	color    RGB
}{
	{[]string{"Grass", "Plant"}, RGB{80, 180, 60}},
	{[]string{"Leaves"}, RGB{34, 139, 34}},
	{[]string{"Stone", "Rock"}, RGB{120, 120, 120}},
	{[]string{"Wood", "Trunk"}, RGB{139, 90, 43}},
	{[]string{"Soil", "Dirt"}, RGB{139, 90, 43}},
	{[]string{"Sand"}, RGB{238, 214, 175}},
	{[]string{"Water"}, RGB{63, 118, 228}},
}

var defaultBlockColor = RGB{128, 128, 128}

// Compositor resolves final display colors for surface blocks. It holds
// only the immutable properties table and is safe for concurrent use.
type Compositor struct {
	table *BlockTable
}

func NewCompositor(table *BlockTable) *Compositor {
	return &Compositor{table: table}
}

// BlockColor resolves the display color for a block, applying biome tint
// and particle-color modulation per the block's properties. biomeTint is
// nil when the chunk carries no tint data. Unknown names never fail; they
// fall through to keyword colors and finally a default gray.
func (c *Compositor) BlockColor(blockName string, biomeTint *RGB) RGB {
	props, ok := c.table.Lookup(blockName)
	if !ok {
		return fallbackColor(blockName)
	}

	if len(props.TintColors) == 0 {
		// No tint color: the particle color becomes the base and is not
		// reapplied as a multiplier.
		if props.ParticleColor != nil {
			return *props.ParticleColor
		}
		return fallbackColor(blockName)
	}

	base := props.TintColors[0]
	tinted := false
	if biomeTint != nil && props.BiomeTintPercent > 0 {
		base = applyBiomeTint(base, *biomeTint, props.BiomeTintPercent)
		tinted = true
	}
	if props.ParticleColor != nil && *props.ParticleColor != base {
		if !tinted || props.BiomeTintPercent < 100 {
			base = applyParticleMultiply(base, *props.ParticleColor)
		}
	}
	return base
}

// applyBiomeTint blends the biome tint into the base color by the block's
// tint percentage.
func applyBiomeTint(base, tint RGB, percent int) RGB {
	p := float64(percent) / 100
	return RGB{
		clampChannel(float64(base.R)*(1-p) + float64(tint.R)*p),
		clampChannel(float64(base.G)*(1-p) + float64(tint.G)*p),
		clampChannel(float64(base.B)*(1-p) + float64(tint.B)*p),
	}
}

// applyParticleMultiply modulates the color per channel by the particle
// color.
func applyParticleMultiply(color, particle RGB) RGB {
	return RGB{
		uint8(int(color.R) * int(particle.R) / 255),
		uint8(int(color.G) * int(particle.G) / 255),
		uint8(int(color.B) * int(particle.B) / 255),
	}
}

func fallbackColor(blockName string) RGB {
	for _, entry := range keywordColors {
		for _, keyword := range entry.keywords {
			if strings.Contains(blockName, keyword) {
				return entry.color
			}
		}
	}
	return defaultBlockColor
}
