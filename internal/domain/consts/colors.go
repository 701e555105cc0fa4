package consts

// Colors (ANSI 16-colour palette indices, bright variants).
const (
	ColorRed     = "9"
	ColorGreen   = "10"
	ColorYellow  = "11"
	ColorBlue    = "12"
	ColorMagenta = "13"
	ColorCyan    = "14"
)
