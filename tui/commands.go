package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"clipmix/catalog"
	"clipmix/sequence"
)

func loadCatalog(path string) tea.Cmd {
	return func() tea.Msg {
		records, err := catalog.Load(path)
		return catalogLoadedMsg{records: records, err: err}
	}
}

func analyze(pool sequence.Pool, req sequence.Request) tea.Cmd {
	return func() tea.Msg {
		report, err := sequence.Analyze(pool, req)
		return analysisDoneMsg{report: report, err: err}
	}
}

func generate(pool sequence.Pool, req sequence.Request) tea.Cmd {
	return func() tea.Msg {
		items, err := sequence.Generate(pool, req)
		return generateDoneMsg{items: items, err: err}
	}
}

func save(path string, items []sequence.Item) tea.Cmd {
	return func() tea.Msg {
		err := catalog.WriteSequence(path, items)
		return savedMsg{path: path, err: err}
	}
}
