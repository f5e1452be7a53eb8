// Package unit converts between points (the typographic unit templates
// and the editor use) and EMU, the native distance unit of the Slides
// API. 1 point = 12700 EMU exactly, so whole and fractional points down
// to 1/12700 convert without loss.
package unit

import "math"

// EMUPerPoint is the exact conversion factor (914400 EMU per inch /
// 72 points per inch).
const EMUPerPoint = 12700

// EMU converts points to EMU. The multiplication happens before the
// single rounding step, so converting the same value twice always
// yields the same result, and the conversion is linear for values
// representable in EMU.
func EMU(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

// Points converts EMU back to points. Used for diagnostics and tests;
// the pipeline itself only ever converts points to EMU.
func Points(emu int64) float64 {
	return float64(emu) / EMUPerPoint
}

// Canvas sizes in points per orientation, matching the standard 16:9
// Slides page.
const (
	LandscapeWidth  = 720.0
	LandscapeHeight = 405.0
	PortraitWidth   = 405.0
	PortraitHeight  = 720.0
)
