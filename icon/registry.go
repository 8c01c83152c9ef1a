package icon

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Stop
	Link
	Radio
	RadioSelected
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    " ",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "👹",
		nerd:    "ﮊ ",
		plain:   "✗",
		kaomoji: "(╯°□°）╯︵ ┻━┻",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    " ",
		plain:   "...",
		kaomoji: "(o_O)",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    " ",
		plain:   ">",
		kaomoji: "(>_>)",
		squares: "🟩",
	},
	Stop: {
		emoji:   "⏹️",
		nerd:    " ",
		plain:   "#",
		kaomoji: "(-_-)",
		squares: "⬛",
	},
	Link: {
		emoji:   "🔗",
		nerd:    " ",
		plain:   "~",
		kaomoji: "(°ロ°)",
		squares: "🟪",
	},
	Radio: {
		emoji:   "⚪",
		nerd:    " ",
		plain:   "( )",
		kaomoji: "( )",
		squares: "⬜",
	},
	RadioSelected: {
		emoji:   "🔘",
		nerd:    " ",
		plain:   "(*)",
		kaomoji: "(•)",
		squares: "🟧",
	},
}
