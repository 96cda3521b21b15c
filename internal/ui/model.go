package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storysift/internal/export"
	"storysift/internal/filter"
	"storysift/internal/table"
	"storysift/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	statePicking state = iota
	stateMapping
	stateKeywords
	stateFiltering
	statePreview
	stateDone
	stateError
)

// mapping fields in canonical order, addressed by cursor position
const (
	fieldID = iota
	fieldDescription
	fieldTopic
	fieldNumber
	fieldCount
)

var fieldLabels = [fieldCount]string{"User Story ID", "User Story Description", "Topic Group", "No"}

type loadedFile struct {
	path string
	tbl  *types.Table
}

type Model struct {
	state        state
	filepicker   filepicker.Model
	loaded       []loadedFile
	skipped      []string
	session      types.Session
	cursor       int
	keywordInput textinput.Model
	mode         types.MatchMode
	warning      string
	result       *types.Table
	preview      btable.Model
	outputFile   string
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan filterResultMsg
}

type fileLoadedMsg struct {
	path string
	tbl  *types.Table
	err  error
}

type filterResultMsg struct {
	result *types.Table
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FDBCA"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FDBCA"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FB3BF")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	ti := textinput.New()
	ti.SetValue(filter.DefaultKeywords)
	ti.CharLimit = 256
	ti.Width = 48

	prog := progress.New(progress.WithGradient("#4FB3BF", "#7FDBCA"))

	return Model{
		state:        statePicking,
		filepicker:   fp,
		keywordInput: ti,
		progress:     prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.Height = height

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case statePicking:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "c":
				return m.continueToMapping()
			}

		case stateMapping:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < fieldCount-1 {
					m.cursor++
				}
			case "left", "h":
				m.cycleColumn(-1)
			case "right", "l", " ":
				m.cycleColumn(1)
			case "enter":
				if !m.session.Mapping.Complete() {
					m.warning = "Choose a column for every field before continuing"
					return m, nil
				}
				m.warning = ""
				m.state = stateKeywords
				m.keywordInput.Focus()
				return m, textinput.Blink
			}

		case stateKeywords:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.warning = ""
				m.keywordInput.Blur()
				m.state = stateMapping
				return m, nil
			case "tab":
				if m.mode == types.MatchAny {
					m.mode = types.MatchAll
				} else {
					m.mode = types.MatchAny
				}
				return m, nil
			case "enter":
				keywords := filter.ParseKeywords(m.keywordInput.Value())
				if len(keywords) == 0 {
					m.warning = "Enter at least one keyword (comma-separated)"
					return m, nil
				}
				m.warning = ""
				m.session.Spec = types.FilterSpec{Keywords: keywords, Mode: m.mode}
				m.keywordInput.Blur()
				m.state = stateFiltering
				return m.runFilter()
			}

			var cmd tea.Cmd
			m.keywordInput, cmd = m.keywordInput.Update(msg)
			return m, cmd

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "s":
				return m, m.exportResult()
			case "e":
				m.warning = ""
				m.state = stateKeywords
				m.keywordInput.Focus()
				return m, textinput.Blink
			case "m":
				m.warning = ""
				m.state = stateMapping
				return m, nil
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd

		case stateDone, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.skipped = append(m.skipped, fmt.Sprintf("%s: %v", filepath.Base(msg.path), msg.err))
			return m, nil
		}
		m.loaded = append(m.loaded, loadedFile{path: msg.path, tbl: msg.tbl})
		return m, nil

	case filterResultMsg:
		if msg.err != nil {
			// Column mismatch and friends come back as warnings, not crashes
			m.warning = msg.err.Error()
			m.state = stateMapping
			return m, nil
		}
		m.result = msg.result
		m.preview = buildPreview(msg.result, m.height)
		m.state = statePreview
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.outputFile = msg.path
		m.state = stateDone
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateFiltering {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == statePicking {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			if m.alreadyLoaded(path) {
				return m, cmd
			}
			return m, tea.Batch(cmd, loadFile(path))
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) alreadyLoaded(path string) bool {
	for _, f := range m.loaded {
		if f.path == path {
			return true
		}
	}
	return false
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		tbl, err := table.Read(path)
		return fileLoadedMsg{path: path, tbl: tbl, err: err}
	}
}

func (m Model) continueToMapping() (Model, tea.Cmd) {
	if len(m.loaded) == 0 {
		m.warning = "Select at least one readable file first"
		return m, nil
	}

	tables := make([]*types.Table, len(m.loaded))
	for i, f := range m.loaded {
		tables[i] = f.tbl
	}

	combined, err := table.Combine(tables)
	if err != nil {
		m.err = err
		m.state = stateError
		return m, nil
	}

	m.session.Table = combined
	m.session.Mapping = filter.DefaultMapping(combined.Columns)
	m.warning = ""
	m.cursor = 0
	m.state = stateMapping
	return m, nil
}

// cycleColumn moves the focused field's column choice by delta, wrapping
// around the combined table's columns. An unset field (-1) starts at
// either end depending on direction.
func (m *Model) cycleColumn(delta int) {
	n := len(m.session.Table.Columns)
	if n == 0 {
		return
	}

	current := m.fieldIndex(m.cursor)
	var next int
	if current == -1 {
		next = 0
		if delta < 0 {
			next = n - 1
		}
	} else {
		next = ((current+delta)%n + n) % n
	}
	m.setFieldIndex(m.cursor, next)
	m.warning = ""
}

func (m *Model) fieldIndex(field int) int {
	switch field {
	case fieldID:
		return m.session.Mapping.ID
	case fieldDescription:
		return m.session.Mapping.Description
	case fieldTopic:
		return m.session.Mapping.Topic
	default:
		return m.session.Mapping.Number
	}
}

func (m *Model) setFieldIndex(field, idx int) {
	switch field {
	case fieldID:
		m.session.Mapping.ID = idx
	case fieldDescription:
		m.session.Mapping.Description = idx
	case fieldTopic:
		m.session.Mapping.Topic = idx
	default:
		m.session.Mapping.Number = idx
	}
}

func (m Model) runFilter() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan filterResultMsg, 1)

	cmd := tea.Batch(
		func() tea.Msg {
			progressChan := m.progressChan
			resultChan := m.resultChan
			session := m.session

			go func() {
				result, err := filter.Run(&session, progressChan)
				resultChan <- filterResultMsg{result: result, err: err}
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func (m Model) exportResult() tea.Cmd {
	result := m.result
	return func() tea.Msg {
		err := export.Write(result, export.OutputFilename)
		return exportDoneMsg{path: export.OutputFilename, err: err}
	}
}

func waitForProgress(progressChan chan float64, resultChan chan filterResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return filterResultMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func buildPreview(result *types.Table, height int) btable.Model {
	widths := []int{14, 48, 18, 6}

	columns := make([]btable.Column, len(result.Columns))
	for i, name := range result.Columns {
		columns[i] = btable.Column{Title: name, Width: widths[i]}
	}

	rows := make([]btable.Row, len(result.Rows))
	for i, r := range result.Rows {
		row := make(btable.Row, len(result.Columns))
		for j := range result.Columns {
			if j < len(r) {
				row[j] = r[j]
			}
		}
		rows[i] = row
	}

	tableHeight := height - 12
	if tableHeight < 5 {
		tableHeight = 5
	}
	if tableHeight > len(rows)+1 {
		tableHeight = len(rows) + 1
	}

	t := btable.New(
		btable.WithColumns(columns),
		btable.WithRows(rows),
		btable.WithFocused(true),
		btable.WithHeight(tableHeight),
	)

	s := btable.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("#4FB3BF"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("#7FDBCA")).Bold(true)
	t.SetStyles(s)

	return t
}

func (m Model) View() string {
	switch m.state {
	case statePicking:
		return m.viewPicking()
	case stateMapping:
		return m.viewMapping()
	case stateKeywords:
		return m.viewKeywords()
	case stateFiltering:
		return m.viewFiltering()
	case statePreview:
		return m.viewPreview()
	case stateDone:
		return m.viewDone()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewPicking() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("StorySift - User Story Keyword Filter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select one or more CSV or XLSX files to load"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")

	if len(m.loaded) > 0 {
		names := make([]string, len(m.loaded))
		for i, f := range m.loaded {
			names[i] = filepath.Base(f.path)
		}
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Loaded: %s", strings.Join(names, ", "))))
		s.WriteString("\n")
	}
	for _, skip := range m.skipped {
		s.WriteString(WarningStyle.Render("Skipped " + skip))
		s.WriteString("\n")
	}
	if m.warning != "" {
		s.WriteString(WarningStyle.Render(m.warning))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("enter: add file • c: continue • q: quit"))

	return s.String()
}

func (m Model) viewMapping() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Map Columns"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d rows combined from %d file(s)", len(m.session.Table.Rows), len(m.loaded))))
	s.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		idx := m.fieldIndex(i)
		choice := "(choose a column)"
		if idx >= 0 {
			choice = m.session.Table.Columns[idx]
		}

		line := fmt.Sprintf("%s %-24s %s", cursor, fieldLabels[i], choice)

		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else if idx >= 0 {
			line = CheckedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.warning != "" {
		s.WriteString(WarningStyle.Render(m.warning))
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("↑/↓: field • ←/→: choose column • enter: continue • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewKeywords() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Keywords"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Comma-separated keywords matched against the description column"))
	s.WriteString("\n\n")
	s.WriteString(m.keywordInput.View())
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Match mode: %s", SelectedStyle.Render(m.mode.String())))
	s.WriteString("\n")
	if m.warning != "" {
		s.WriteString("\n")
		s.WriteString(WarningStyle.Render(m.warning))
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("tab: toggle ANY/ALL • enter: filter • esc: back to mapping"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewFiltering() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Filtering..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Matching %s of: %s", m.mode.String(), strings.Join(m.session.Spec.Keywords, ", ")))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Filtered User Stories"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d of %d rows matched (%s: %s)",
		len(m.result.Rows), len(m.session.Table.Rows), m.mode.String(), strings.Join(m.session.Spec.Keywords, ", "))))
	s.WriteString("\n\n")
	s.WriteString(m.preview.View())
	s.WriteString("\n")
	if m.warning != "" {
		s.WriteString(WarningStyle.Render(m.warning))
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("↑/↓: scroll • s: save spreadsheet • e: edit keywords • m: edit mapping • q: quit"))

	return s.String()
}

func (m Model) viewDone() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Export Complete"))
	s.WriteString("\n\n")
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Saved: %s\n", m.outputFile)))
	s.WriteString(fmt.Sprintf("Rows exported: %d\n", len(m.result.Rows)))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press enter to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
