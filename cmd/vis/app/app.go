package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/torven/breaker"
)

const refreshInterval = 100 * time.Millisecond

// errSimulated is the failure outcome injected by the 'f' key.
var errSimulated = errors.New("simulated failure")

type tickMsg time.Time

type model struct {
	circuit *breaker.Breaker
	flash   *eventFlash
	ui      *ui
}

func newModel(opts Options) model {
	circuit := breaker.New("vis", opts.breakerOptions()...)
	flash := &eventFlash{}
	return model{
		circuit: circuit,
		flash:   flash,
		ui:      newUI(circuit, flash),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			m.circuit.Record(nil)
			m.flash.Record(eventSuccess, time.Now())
		case "f":
			m.circuit.Record(errSimulated)
			m.flash.Record(eventFailure, time.Now())
		}
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	return m.ui.Render(time.Now())
}

func run(opts Options) error {
	p := tea.NewProgram(newModel(opts))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
