package core

// Color is a foreground color for a screen cell. Front ends map each value
// to a terminal color.
type Color uint8

// Palette
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorGray
)

// Road roles
const (
	ColorRoadEdge   = ColorGray
	ColorLaneMarker = ColorWhite
	ColorEnemy      = ColorRed
	ColorCrash      = ColorBrightRed
	ColorHighlight  = ColorBrightYellow
)

// CarColors gives each selectable car its body color, by car index.
var CarColors = []Color{
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightRed,
	ColorWhite,
}

// CarColor returns the body color of car i, clamped to the palette.
func CarColor(i int) Color {
	return CarColors[Clamp(i, 0, len(CarColors)-1)]
}
