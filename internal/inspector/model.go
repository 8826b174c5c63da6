package inspector

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
)

// Placeholder is shown in the empty packet input
const Placeholder = "Raw packet (0x...)"

// logSource identifies inspector decodes in the log
const logSource = "inspector"

// Result is the outcome of the last submitted packet: either a decoded
// table or the error that prevented decoding.
type Result struct {
	Input string
	Table packet.Table
	Err   error
}

// Model is the Bubble Tea model of the interactive inspector. It holds a
// single text input and the result of the most recent submission, which is
// replaced on every Enter.
type Model struct {
	Input   textinput.Model
	Help    help.Model
	Keys    keyMap
	Options packet.Options

	// Result of the last submission; nil until the first decode or after clear
	last *Result

	// Number of packets submitted this session
	Submitted int

	// UI state
	Width  int
	Height int
}

// New creates an inspector that decodes with opts.
func New(opts packet.Options) Model {
	input := textinput.New()
	input.Placeholder = Placeholder
	input.CharLimit = 0 // Packets may be pasted with whitespace
	input.Width = 60
	input.Prompt = "› "
	input.Focus()

	return Model{
		Input:   input,
		Help:    help.New(),
		Keys:    defaultKeyMap(),
		Options: opts,
	}
}

// Last returns the result of the most recent submission.
func (m Model) Last() (Result, bool) {
	if m.last == nil {
		return Result{}, false
	}
	return *m.last, true
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		if w := msg.Width - 8; w > 10 {
			m.Input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Clear):
			m.last = nil
			return m, nil
		case key.Matches(msg, m.Keys.Decode):
			return m.submit(), nil
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// submit decodes the current input, stores the outcome and clears the input.
// An empty input leaves the previous result in place.
func (m Model) submit() Model {
	raw := m.Input.Value()
	if raw == "" {
		return m
	}

	m.last = decode(raw, m.Options)
	m.Submitted++
	m.Input.Reset()
	return m
}

func decode(raw string, opts packet.Options) *Result {
	data, err := packet.Normalize(raw)
	logging.LogDecode(logSource, raw, len(data), err)
	if err != nil {
		return &Result{Input: raw, Err: err}
	}
	logging.LogRawBytes("Inspector packet", data)
	return &Result{Input: raw, Table: packet.DecodeBytesWith(data, opts)}
}
