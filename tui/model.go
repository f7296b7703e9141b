// Package tui is an interactive wizard for planning and generating clip
// sequences from a catalog file.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"clipmix/config"
	"clipmix/sequence"
)

// State is the wizard's screen.
type State string

const (
	StateLoading   State = "loading"
	StateForm      State = "form"
	StateAnalyzing State = "analyzing"
	StateReport    State = "report"
	StateBuilding  State = "building"
	StatePreview   State = "preview"
	StateSaved     State = "saved"
	StateError     State = "error"
)

// form fields, in cursor order
const (
	fieldLength = iota
	fieldSpacing
	fieldCategories
	fieldCount
)

// Model holds the wizard state.
type Model struct {
	state       State
	catalogPath string
	outPath     string

	records    []sequence.Record
	categories []string // all categories present in the catalog

	// form
	cursor    int
	catCursor int
	length    int
	spacing   int
	selected  map[string]bool

	report sequence.FeasibilityReport
	items  []sequence.Item
	err    error
}

// NewModel builds the wizard for one catalog file. Generated sequences are
// written to outPath on save.
func NewModel(catalogPath, outPath string) Model {
	return Model{
		state:       StateLoading,
		catalogPath: catalogPath,
		outPath:     outPath,
		length:      config.DefaultSequenceLength,
		spacing:     config.DefaultMinSpacing,
		selected:    make(map[string]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return loadCatalog(m.catalogPath)
}

// request assembles the generation request from the form state.
func (m Model) request() sequence.Request {
	var cats []string
	for _, c := range m.categories {
		if m.selected[c] {
			cats = append(cats, c)
		}
	}
	return sequence.Request{
		Categories: cats,
		Length:     m.length,
		MinSpacing: m.spacing,
	}
}

func (m Model) pool() sequence.Pool {
	req := m.request()
	return sequence.Filter(m.records, req.Categories, nil)
}
