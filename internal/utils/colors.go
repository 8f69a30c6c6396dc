package utils

type colors struct {
	c map[string]int
}

var Colors = colors{
	// Palette: https://coolors.co/b1e5f2-9bc59d-d33f49-ffd166-6c5a99
	c: map[string]int{
		"Columbia blue": 0xb1e5f2,
		"Cambridge":     0x9bc59d,
		"Rusty red":     0xd33f49,
		"Sunglow":       0xffd166,
		"Ultra violet":  0x6c5a99,
	},
}

// Ok returns the color code for success messages
func (c colors) Ok() int {
	return c.c["Cambridge"]
}

// Info returns the color code for informational messages
func (c colors) Info() int {
	return c.c["Columbia blue"]
}

// Fancy returns the color code for celebratory messages
func (c colors) Fancy() int {
	return c.c["Ultra violet"]
}

// Error returns the color code for error messages
func (c colors) Error() int {
	return c.c["Rusty red"]
}

// Warning returns the color code for warning messages
func (c colors) Warning() int {
	return c.c["Sunglow"]
}
