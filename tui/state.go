package tui

type state int

const (
	formState state = iota
	historyState
	errorState
)
