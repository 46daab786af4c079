// Package viz renders collected beam quantities in the terminal: an
// interactive viewer that pages through fields along the beamline.
package viz

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

const (
	graphWidth  = 80
	graphHeight = 12
)

// Model is the bubbletea model of the field viewer. It holds the
// collected series of one run plus UI cursor state.
type Model struct {
	runID     string
	locs      []string
	fields    []string
	data      map[string]output.Series
	selected  int
	component int
	showHelp  bool
}

// NewModel builds a viewer over collected series. fields fixes the
// paging order; every named series must be present in data.
func NewModel(runID string, locs []string, fields []string, data map[string]output.Series) Model {
	return Model{
		runID:  runID,
		locs:   locs,
		fields: fields,
		data:   data,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles key input: up/down pages through fields, left/right
// moves the component cursor for vector fields.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		if len(m.fields) == 0 {
			return m, nil
		}
		switch key.String() {
		case "up", "k":
			m.selected = (m.selected + len(m.fields) - 1) % len(m.fields)
			m.component = 0
		case "down", "j":
			m.selected = (m.selected + 1) % len(m.fields)
			m.component = 0
		case "left", "h":
			if m.component > 0 {
				m.component--
			}
		case "right", "l":
			if m.component < m.maxComponent() {
				m.component++
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m Model) maxComponent() int {
	series := m.data[m.fields[m.selected]]
	if len(series) == 0 || series.Kind() != beamstate.KindVector {
		return 0
	}
	return len(series[0].Vector) - 1
}

func (m Model) View() string {
	if len(m.fields) == 0 {
		return "no fields collected\n"
	}

	name := m.fields[m.selected]
	series := m.data[name]

	header := headerStyle.Render(fmt.Sprintf("%s  (%d/%d fields, %d monitor points)",
		m.runID, m.selected+1, len(m.fields), len(series)))

	var body string
	switch series.Kind() {
	case beamstate.KindScalar:
		vals, err := series.Floats()
		if err != nil {
			body = errorStyle.Render(err.Error())
		} else {
			body = plot(vals, name)
		}
	case beamstate.KindVector:
		vals, err := series.Component(m.component)
		if err != nil {
			body = errorStyle.Render(err.Error())
		} else {
			body = plot(vals, fmt.Sprintf("%s[%d]", name, m.component))
		}
	default:
		body = labelStyle.Render(fmt.Sprintf("%s is a %s field; use export instead", name, series.Kind()))
	}

	fieldList := ""
	for i, f := range m.fields {
		if i == m.selected {
			fieldList += selectedStyle.Render("> "+f) + "\n"
		} else {
			fieldList += labelStyle.Render("  "+f) + "\n"
		}
	}

	help := helpStyle.Render("j/k field  h/l component  q quit")
	if m.showHelp {
		help = helpStyle.Render("up/down or j/k: next field, left/right or h/l: vector component, ?: toggle help, q: quit")
	}

	return header + "\n\n" + graphStyle.Render(body) + "\n" + fieldList + help + "\n"
}

func plot(vals []float64, caption string) string {
	if len(vals) == 0 {
		return "no data"
	}
	return asciigraph.Plot(vals,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
}

// Run starts the viewer and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
