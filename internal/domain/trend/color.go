package trend

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// NameColor derives a stable display color from an entity name, so the same
// member keeps the same hue across page loads and chart types.
func NameColor(name string) string {
	sum := md5.Sum([]byte(name))
	return "#" + hex.EncodeToString(sum[:])[:6]
}

func hexToRGB(color string) (int, int, int) {
	c := strings.TrimPrefix(color, "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) < 6 {
		return 128, 128, 128
	}
	var r, g, b int
	if _, err := fmt.Sscanf(c[:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 128, 128, 128
	}
	return r, g, b
}

// blendWith mixes a base accent color into the entity color; alpha is the
// share of the accent.
func blendWith(color string, baseR, baseG, baseB int, alpha float64) string {
	r, g, b := hexToRGB(color)
	mix := func(m, base int) int {
		return int(float64(m)*(1-alpha) + float64(base)*alpha)
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(r, baseR), mix(g, baseG), mix(b, baseB))
}
