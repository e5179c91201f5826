package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docketworks/platform/proc"
	"github.com/docketworks/platform/sockets"
)

type dashboardModel struct {
	dialErr  error
	status   map[int]probeStatus
	dialMsg  string
	probes   []probe
	input    textinput.Model
	selected int
	state    dashState
}

type probeStatus struct {
	err  error
	ms   int64
	ran  bool
	busy bool
}

type dashState int

const (
	stateProbeList dashState = iota
	stateDialInput
)

type probeDoneMsg struct {
	err error
	ms  int64
	idx int
}

type dialDoneMsg struct {
	err    error
	target string
	ms     int64
}

func newDashboardModel() *dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "host:port"
	ti.Prompt = "target: "
	ti.Width = 40

	return &dashboardModel{
		probes: probes(),
		status: make(map[int]probeStatus),
		input:  ti,
		state:  stateProbeList,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return nil
}

func runProbeCmd(idx int, p probe) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := p.run()
		return probeDoneMsg{idx: idx, err: err, ms: time.Since(start).Milliseconds()}
	}
}

func dialCmd(target string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := dialTarget(target)
		return dialDoneMsg{target: target, err: err, ms: time.Since(start).Milliseconds()}
	}
}

func dialTarget(target string) error {
	host, portStr, err := net.SplitHostPort(target)
	if err != nil {
		return err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return fmt.Errorf("port %q: %w", portStr, err)
	}

	if err := sockets.Init(); err != nil {
		return err
	}
	defer sockets.Cleanup()

	s, err := sockets.New(sockets.TCP)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.Connect(ctx, host, uint16(port))
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The dial prompt owns the keyboard; only control keys escape it.
		if m.state == stateDialInput {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.state = stateProbeList
				return m, nil
			case "enter":
				target := strings.TrimSpace(m.input.Value())
				if target == "" {
					return m, nil
				}
				m.state = stateProbeList
				m.dialMsg = "dialing " + target
				m.dialErr = nil
				return m, dialCmd(target)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.probes)-1 {
				m.selected++
			}

		case "enter":
			idx := m.selected
			st := m.status[idx]
			if st.busy {
				return m, nil
			}
			st.busy = true
			m.status[idx] = st
			return m, runProbeCmd(idx, m.probes[idx])

		case "d":
			m.state = stateDialInput
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case probeDoneMsg:
		m.status[msg.idx] = probeStatus{ran: true, err: msg.err, ms: msg.ms}

	case dialDoneMsg:
		if msg.err != nil {
			m.dialMsg = ""
			m.dialErr = fmt.Errorf("dial %s: %w", msg.target, msg.err)
		} else {
			m.dialMsg = fmt.Sprintf("connected to %s in %dms", msg.target, msg.ms)
			m.dialErr = nil
		}
	}

	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("platform probes"))
	b.WriteString("\n\n")

	switch m.state {
	case stateProbeList:
		for i := range m.probes {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.probeLine(i)))
			} else {
				b.WriteString("  " + m.probeLine(i))
			}
			b.WriteString("\n")
		}

		if st := m.status[m.selected]; st.ran && st.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(st.err.Error()))
			b.WriteString("\n")
		}
		if m.dialErr != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(m.dialErr.Error()))
			b.WriteString("\n")
		} else if m.dialMsg != "" {
			b.WriteString("\n")
			b.WriteString(resultStyle.Render(m.dialMsg))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • d dial • q quit"))

	case stateDialInput:
		b.WriteString("Dial a TCP target:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter dial • esc back"))
	}

	return b.String()
}

func (m *dashboardModel) probeLine(i int) string {
	st := m.status[i]

	glyph := "  "
	switch {
	case st.busy:
		glyph = helpStyle.Render("..")
	case st.ran && st.err == nil:
		glyph = resultStyle.Render("ok")
	case st.ran:
		glyph = errorStyle.Render("xx")
	}

	line := fmt.Sprintf("%s %-18s", glyph, m.probes[i].name)
	if st.ran && st.err == nil {
		line += helpStyle.Render(fmt.Sprintf("%dms", st.ms))
	}
	return line
}

func runInteractive() error {
	if !proc.StdoutIsTerminal() {
		return fmt.Errorf("interactive mode needs a terminal on stdout")
	}
	p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
