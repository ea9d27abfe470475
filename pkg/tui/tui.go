// Package tui provides a terminal user interface for dna2midi
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/dna2midi/pkg/config"
	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/pipeline"
	"github.com/james-see/dna2midi/pkg/render"
	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
)

// Base-pair color scheme
var (
	adenine  = lipgloss.Color("#39FF14")
	thymine  = lipgloss.Color("#FFFF00")
	cytosine = lipgloss.Color("#C0C0C0")
	guanine  = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(adenine).
			Background(guanine).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(cytosine).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(adenine).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(thymine).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(adenine).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(adenine).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateSequence
	StateFilePicker
	StateSettings
	StateGenerating
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
}

var menuItems = []MenuItem{
	{Title: "Type a sequence", Description: "Paste or type the nucleotides to play"},
	{Title: "Open a FASTA file", Description: "Play the first record of a .fa, .fasta or .txt file"},
	{Title: "Exit", Description: "Exit the application"},
}

const (
	menuSequence = iota
	menuFile
	menuExit
)

// settings fields, in focus order
const (
	fieldTonic = iota
	fieldMode
	fieldTempo
)

var fieldLabels = []string{"Tonic", "Mode ", "Tempo"}

// Model represents the TUI model
type Model struct {
	cfg        config.Config
	state      State
	menuIndex  int
	sequence   textinput.Model
	filePicker filepicker.Model
	settings   []textinput.Model
	focus      int
	spinner    spinner.Model

	// source is the FASTA file the sequence came from, empty when typed
	source     string
	dna        string
	outputFile string
	counts     score.Counts
	err        error
	width      int
	height     int
}

// generatedMsg signals that the song has been rendered
type generatedMsg struct {
	outputFile string
	counts     score.Counts
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model whose settings form starts from cfg
func New(cfg config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".fa", ".fasta", ".fna", ".txt"}
	fp.CurrentDirectory, _ = os.Getwd()

	seq := textinput.New()
	seq.Placeholder = "ATGGCTGATCGTAGTTGGGCAGACCGCAGCTAA"
	seq.Width = 60

	settings := make([]textinput.Model, len(fieldLabels))
	for i := range settings {
		settings[i] = textinput.New()
		settings[i].Width = 12
	}
	settings[fieldTonic].SetValue(cfg.Song.Tonic)
	settings[fieldTonic].CharLimit = 1
	settings[fieldMode].SetValue(cfg.Song.Mode)
	settings[fieldTempo].SetValue(strconv.Itoa(cfg.Song.Tempo))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(adenine)

	return Model{
		cfg:        cfg,
		state:      StateMenu,
		sequence:   seq,
		filePicker: fp,
		settings:   settings,
		spinner:    s,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			return m.loadFile(path)
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateSequence:
			return m.updateSequence(msg)
		case StateSettings:
			return m.updateSettings(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.counts = msg.counts
		m.err = msg.err
		return m, nil
	}

	// cursor blink and friends
	var cmd tea.Cmd
	switch m.state {
	case StateSequence:
		m.sequence, cmd = m.sequence.Update(msg)
	case StateSettings:
		m.settings[m.focus], cmd = m.settings[m.focus].Update(msg)
	}
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch m.menuIndex {
		case menuSequence:
			m.state = StateSequence
			m.source = ""
			return m, m.sequence.Focus()
		case menuFile:
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		default:
			return m, tea.Quit
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSequence(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sequence.Blur()
		m.err = nil
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		seq := dna.Clean(m.sequence.Value())
		if err := dna.Validate(seq); err != nil {
			m.err = err
			return m, nil
		}
		m.sequence.Blur()
		m.dna = seq
		return m.openSettings()
	}

	var cmd tea.Cmd
	m.sequence, cmd = m.sequence.Update(msg)
	return m, cmd
}

func (m Model) loadFile(path string) (tea.Model, tea.Cmd) {
	seq, err := dna.ReadSequenceFile(path)
	if err == nil {
		err = dna.Validate(seq)
	}
	if err != nil {
		m.state = StateResult
		m.source = path
		m.err = err
		return m, nil
	}
	m.source = path
	m.dna = seq
	return m.openSettings()
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	m.err = nil
	m.state = StateSettings
	m.focus = fieldTonic
	for i := range m.settings {
		m.settings[i].Blur()
	}
	return m, m.settings[m.focus].Focus()
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	case "enter":
		if m.focus < len(m.settings)-1 {
			return m.moveFocus(1)
		}
		req, err := m.request()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.state = StateGenerating
		return m, tea.Batch(m.spinner.Tick, m.generate(req))
	}

	var cmd tea.Cmd
	m.settings[m.focus], cmd = m.settings[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.settings[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.settings)) % len(m.settings)
	return m, m.settings[m.focus].Focus()
}

// request collects the form into a validated pipeline request
func (m Model) request() (pipeline.Request, error) {
	tempo, err := strconv.Atoi(strings.TrimSpace(m.settings[fieldTempo].Value()))
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("%w: %q", pipeline.ErrInvalidTempo, m.settings[fieldTempo].Value())
	}
	req := pipeline.Request{
		Sequence: m.dna,
		Tonic:    theory.Note(m.settings[fieldTonic].Value()),
		Mode:     theory.Mode(m.settings[fieldMode].Value()),
		Tempo:    tempo,
	}
	if err := req.Validate(); err != nil {
		return pipeline.Request{}, err
	}
	return req, nil
}

// outputPath places the song next to its FASTA file, or at the configured
// output for typed sequences
func (m Model) outputPath() string {
	if m.source == "" {
		return m.cfg.Output
	}
	base := strings.TrimSuffix(m.source, filepath.Ext(m.source))
	return base + filepath.Ext(m.cfg.Output)
}

// countingRenderer records the shape of the score it renders
type countingRenderer struct {
	render.Renderer
	counts score.Counts
}

func (c *countingRenderer) Render(s *score.Score, tempo int) error {
	c.counts = s.Count()
	return c.Renderer.Render(s, tempo)
}

func (m Model) generate(req pipeline.Request) tea.Cmd {
	outputFile := m.outputPath()
	opts := m.cfg.MIDIOptions()
	return func() tea.Msg {
		r, err := render.ForPath(outputFile, opts)
		if err != nil {
			return generatedMsg{err: err}
		}

		out := &countingRenderer{Renderer: r}
		if _, err := pipeline.Process(req.Sequence, req.Tonic, req.Mode, req.Tempo, out); err != nil {
			return generatedMsg{err: err}
		}

		return generatedMsg{outputFile: outputFile, counts: out.counts}
	}
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.source = ""
		m.dna = ""
		m.outputFile = ""
		m.counts = score.Counts{}
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateSequence:
		s.WriteString(m.viewSequence())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateSettings:
		s.WriteString(m.viewSettings())
	case StateGenerating:
		s.WriteString(m.viewGenerating())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT SOURCE "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(thymine).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewSequence() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" ENTER SEQUENCE "))
	s.WriteString("\n\n")
	s.WriteString(m.sequence.View())
	s.WriteString("\n")
	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("enter: continue • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT FASTA FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewSettings() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SONG SETTINGS "))
	s.WriteString("\n\n")
	s.WriteString(menuStyle.Render(fmt.Sprintf("Sequence: %d bases", len(m.dna))))
	s.WriteString("\n\n")

	for i, input := range m.settings {
		label := menuStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = selectedStyle.Render(fieldLabels[i])
		}
		s.WriteString(label + " " + input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("tab: next field • enter: generate • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewGenerating() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" GENERATING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Composing %s...\n", m.spinner.View(), filepath.Base(m.outputPath())))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s %s @ %s bpm",
		m.settings[fieldTonic].Value(), m.settings[fieldMode].Value(), m.settings[fieldTempo].Value())))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Generation failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ " + pipeline.SuccessMessage))
		s.WriteString("\n\n")
		if m.source != "" {
			s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.source)))
		}
		s.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(m.outputFile)))
		s.WriteString(fmt.Sprintf("Notes: %d  Rests: %d  Bars: %d",
			m.counts.Notes, m.counts.Rests, m.counts.Markers+1))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
  ____  _   _    _    ____  __  __ ___ ____ ___
 |  _ \| \ | |  / \  |___ \|  \/  |_ _|  _ \_ _|
 | | | |  \| | / _ \   __) | |\/| || || | | | |
 | |_| | |\  |/ ___ \ / __/| |  | || || |_| | |
 |____/|_| \_/_/   \_\_____|_|  |_|___|____/___|
`
	return lipgloss.NewStyle().Foreground(adenine).Render(logo)
}

// Run starts the TUI application
func Run(cfg config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
