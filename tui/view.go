package tui

import (
	"fmt"
	"sort"
	"strings"

	"clipmix/sequence"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎬 ClipMix Sequence Wizard"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(statusStyle.Render("⏳ Loading catalog " + m.catalogPath + "..."))

	case StateForm:
		b.WriteString(m.viewForm())

	case StateAnalyzing:
		b.WriteString(statusStyle.Render("🔍 Analyzing feasibility..."))

	case StateReport:
		b.WriteString(m.viewReport())
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("Press enter to generate | b to go back | q to quit"))

	case StateBuilding:
		b.WriteString(statusStyle.Render("🎲 Building sequence..."))

	case StatePreview:
		b.WriteString(m.viewPreview())
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("Press s to save | g to regenerate | b to go back | q to quit"))

	case StateSaved:
		b.WriteString(highlightStyle.Render("✅ Saved " + m.outPath))
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("Press b to plan another sequence | q to quit"))

	case StateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("Press b to go back | q to quit"))
	}

	b.WriteString("\n")
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render(fmt.Sprintf("📚 %d clips loaded from %s", len(m.records), m.catalogPath)))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Sequence length: %d", m.length),
		fmt.Sprintf("Min spacing:     %d", m.spacing),
		"Categories:      " + m.viewCategoryRow(),
	}
	for i, row := range rows {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("↑/↓ select field | ←/→ adjust | space toggle category | enter to analyze | q to quit"))
	return b.String()
}

func (m Model) viewCategoryRow() string {
	if len(m.categories) == 0 {
		return "(none)"
	}

	parts := make([]string, len(m.categories))
	for i, cat := range m.categories {
		mark := " "
		if m.selected[cat] {
			mark = "x"
		}
		label := fmt.Sprintf("[%s] %s", mark, cat)
		if m.cursor == fieldCategories && i == m.catCursor {
			label = cursorStyle.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewReport() string {
	var b strings.Builder

	var verdict string
	switch m.report.Classification {
	case sequence.Safe:
		verdict = statusStyle.Render("SAFE")
	case sequence.Risky:
		verdict = warnStyle.Render("RISKY")
	case sequence.Infeasible:
		verdict = errorStyle.Render("INFEASIBLE")
	}

	b.WriteString(fmt.Sprintf("Classification:  %s\n", verdict))
	b.WriteString(fmt.Sprintf("Max safe length: %d\n", m.report.MaxSafeLength))
	if m.report.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason:          %s\n", m.report.Reason))
	}
	b.WriteString("\nClips per category:\n")
	for _, cat := range sortedCategoryKeys(m.report.CategoryCounts) {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  %-20s %d\n", cat, m.report.CategoryCounts[cat])))
	}

	return boxStyle.Render(b.String())
}

func (m Model) viewPreview() string {
	var b strings.Builder

	b.WriteString(highlightStyle.Render(fmt.Sprintf("Generated %d items", len(m.items))))
	b.WriteString("\n\n")

	// Show the first few and last few positions.
	const window = 8
	show := m.items
	truncated := false
	if len(show) > 2*window {
		truncated = true
	}
	for i, item := range show {
		if truncated && i == window {
			b.WriteString(infoStyle.Render(fmt.Sprintf("  ... %d more ...\n", len(show)-2*window)))
		}
		if truncated && i >= window && i < len(show)-window {
			continue
		}
		b.WriteString(fmt.Sprintf("  %3d. %-30s %s\n", item.ItemNumber, item.Record.Name, infoStyle.Render(item.Record.Category)))
	}

	return boxStyle.Render(b.String())
}

func sortedCategoryKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
