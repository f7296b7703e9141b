package tui

import (
	"clipmix/sequence"
)

type catalogLoadedMsg struct {
	records []sequence.Record
	err     error
}

type analysisDoneMsg struct {
	report sequence.FeasibilityReport
	err    error
}

type generateDoneMsg struct {
	items []sequence.Item
	err   error
}

type savedMsg struct {
	path string
	err  error
}
