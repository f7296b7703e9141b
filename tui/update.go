package tui

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogLoadedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.records = msg.records
		seen := make(map[string]bool)
		for _, rec := range m.records {
			if !seen[rec.Category] {
				seen[rec.Category] = true
				m.categories = append(m.categories, rec.Category)
			}
		}
		sort.Strings(m.categories)
		m.state = StateForm
		return m, nil

	case analysisDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		m.state = StateReport
		return m, nil

	case generateDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.items = msg.items
		m.state = StatePreview
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.state = StateSaved
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	switch m.state {
	case StateForm:
		return m.handleFormKey(msg)

	case StateReport:
		switch msg.String() {
		case "enter", "g":
			m.state = StateBuilding
			return m, generate(m.pool(), m.request())
		case "esc", "b":
			m.state = StateForm
		}

	case StatePreview:
		switch msg.String() {
		case "s":
			return m, save(m.outPath, m.items)
		case "g":
			m.state = StateBuilding
			return m, generate(m.pool(), m.request())
		case "esc", "b":
			m.state = StateForm
		}

	case StateSaved, StateError:
		if msg.String() == "b" || msg.String() == "esc" {
			m.state = StateForm
			m.err = nil
		}
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < fieldCount-1 {
			m.cursor++
		}
	case "left", "h":
		switch m.cursor {
		case fieldLength:
			if m.length > 1 {
				m.length--
			}
		case fieldSpacing:
			if m.spacing > 0 {
				m.spacing--
			}
		case fieldCategories:
			if m.catCursor > 0 {
				m.catCursor--
			}
		}
	case "right", "l":
		switch m.cursor {
		case fieldLength:
			m.length++
		case fieldSpacing:
			m.spacing++
		case fieldCategories:
			if m.catCursor < len(m.categories)-1 {
				m.catCursor++
			}
		}
	case " ":
		if m.cursor == fieldCategories && len(m.categories) > 0 {
			cat := m.categories[m.catCursor]
			m.selected[cat] = !m.selected[cat]
		}
	case "enter":
		m.state = StateAnalyzing
		return m, analyze(m.pool(), m.request())
	}
	return m, nil
}
