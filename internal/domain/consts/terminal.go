package consts

// Terminal control sequences.
const (
	CursorUp         = "\033[A"
	CursorLineStart  = "\033[0G"
	ClearToLineEnd   = "\033[K"
	ClearLine        = CursorLineStart + ClearToLineEnd
	DefaultConsoleW  = 80
	MaxScreenWidth   = 80
	MaxShortTitleLen = 26
)
