package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/netres/internal/checks"
)

// RoundFunc runs one round of checks.
type RoundFunc func(ctx context.Context) []checks.Outcome

type roundDoneMsg struct {
	outcomes []checks.Outcome
	at       time.Time
}

// tickMsg schedules the next round. Ticks from an older generation are
// ignored so a manual refresh does not start a second schedule.
type tickMsg struct {
	gen int
}

// Dashboard is a bubbletea model that reruns checks on an interval and
// renders one line per target.
type Dashboard struct {
	ctx      context.Context
	run      RoundFunc
	targets  []checks.Target
	interval time.Duration
	keys     KeyMap
	spinner  spinner.Model

	running  bool
	gen      int
	rounds   int
	lastRun  time.Time
	outcomes []checks.Outcome
}

// NewDashboard creates a dashboard for targets. run is called once per round.
func NewDashboard(ctx context.Context, targets []checks.Target, run RoundFunc, interval time.Duration) Dashboard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return Dashboard{
		ctx:      ctx,
		run:      run,
		targets:  targets,
		interval: interval,
		keys:     DefaultKeyMap(),
		spinner:  s,
		running:  true,
	}
}

// Init implements tea.Model.
func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.runRound())
}

func (d Dashboard) runRound() tea.Cmd {
	ctx, run := d.ctx, d.run
	return func() tea.Msg {
		return roundDoneMsg{outcomes: run(ctx), at: time.Now()}
	}
}

func (d Dashboard) scheduleTick() tea.Cmd {
	gen := d.gen
	return tea.Tick(d.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update implements tea.Model.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Quit):
			return d, tea.Quit
		case key.Matches(msg, d.keys.Refresh):
			if d.running {
				return d, nil
			}
			d.running = true
			return d, tea.Batch(d.spinner.Tick, d.runRound())
		}

	case roundDoneMsg:
		d.running = false
		d.outcomes = msg.outcomes
		d.lastRun = msg.at
		d.rounds++
		d.gen++
		return d, d.scheduleTick()

	case tickMsg:
		if msg.gen != d.gen || d.running {
			return d, nil
		}
		d.running = true
		return d, tea.Batch(d.spinner.Tick, d.runRound())

	case spinner.TickMsg:
		if !d.running {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	return d, nil
}

// View implements tea.Model.
func (d Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("netres watch"))
	b.WriteString("\n")

	if d.outcomes == nil {
		for _, t := range d.targets {
			fmt.Fprintf(&b, "%s %s\n", SymbolPending, NameStyle.Render(t.DisplayName()))
		}
	}
	for _, o := range d.outcomes {
		b.WriteString(renderOutcome(o))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("every %v", d.interval)
	if !d.lastRun.IsZero() {
		status = fmt.Sprintf("last check %s • round %d • %s", d.lastRun.Format(time.Kitchen), d.rounds, status)
	}
	if d.running {
		status = d.spinner.View() + " checking • " + status
	}

	b.WriteString(HelpStyle.Render(status + "\n" + d.keys.HelpText()))
	return b.String()
}

func renderOutcome(o checks.Outcome) string {
	name := NameStyle.Render(o.Target.DisplayName())
	r := o.Result

	switch {
	case r.Degraded:
		return fmt.Sprintf("%s %s %s", WarningStyle.Render(SymbolDegraded), name, DetailStyle.Render("degraded"))
	case r.Success:
		return fmt.Sprintf("%s %s %s", SuccessStyle.Render(SymbolCheck), name, DetailStyle.Render(attemptsLabel(r.Attempts)))
	default:
		return fmt.Sprintf("%s %s %s", ErrorStyle.Render(SymbolCross), name, ErrorStyle.Render(r.Error))
	}
}

func attemptsLabel(n int) string {
	if n == 1 {
		return "1 attempt"
	}
	return fmt.Sprintf("%d attempts", n)
}

// RunDashboard runs the dashboard until the user quits or ctx is cancelled.
func RunDashboard(ctx context.Context, d Dashboard) error {
	p := tea.NewProgram(d, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
