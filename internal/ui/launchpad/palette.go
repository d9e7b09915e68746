package launchpad

import "mid1lights/internal/core/model"

// Launchpad X palette entries as {velocity, R, G, B}.
var palette = [][4]uint8{
	{0, 0, 0, 0},
	{5, 255, 0, 0},
	{6, 255, 80, 80},
	{7, 180, 60, 60},
	{9, 255, 100, 0},
	{11, 180, 80, 40},
	{13, 255, 200, 0},
	{17, 0, 180, 0},
	{19, 0, 100, 0},
	{21, 0, 255, 0},
	{37, 0, 200, 200},
	{43, 40, 60, 120},
	{45, 0, 100, 255},
	{47, 80, 150, 255},
	{49, 150, 0, 200},
	{53, 255, 80, 180},
	{78, 100, 100, 255},
	{84, 255, 150, 50},
	{87, 150, 255, 100},
	{97, 180, 180, 60},
	{119, 255, 255, 255},
}

// NearestColor returns the palette velocity closest to led.
func NearestColor(led model.HSV) uint8 {
	red, green, blue := led.RGB()
	r, g, b := int(red), int(green), int(blue)

	best := uint8(0)
	bestDistance := 1 << 30
	for _, entry := range palette {
		dr, dg, db := r-int(entry[1]), g-int(entry[2]), b-int(entry[3])
		distance := dr*dr + dg*dg + db*db
		if distance < bestDistance {
			bestDistance = distance
			best = entry[0]
		}
	}
	return best
}
