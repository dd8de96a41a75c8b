package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/recgo"
	"github.com/hupe1980/recgo/ingest"
	"github.com/hupe1980/recgo/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginRight(2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

type loadedMsg struct {
	store *recgo.Store
	stats ingest.LoadStats
}

type loadFailedMsg struct {
	err error
}

// dashboardModel drives the terminal dashboard: it loads the dataset in
// the background, then renders aggregate panels over the store.
type dashboardModel struct {
	cfg     *Config
	logger  *recgo.Logger
	spinner spinner.Model

	store     *recgo.Store
	loadStats ingest.LoadStats
	err       error
}

func newDashboardModel(cfg *Config, logger *recgo.Logger) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return dashboardModel{
		cfg:     cfg,
		logger:  logger,
		spinner: sp,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m dashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		store, loadStats, err := loadDataset(context.Background(), m.cfg, m.logger)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{store: store, stats: loadStats}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case loadedMsg:
		m.store = msg.store
		m.loadStats = msg.stats
		return m, nil

	case loadFailedMsg:
		m.err = msg.err
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("recgo dashboard"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("load failed: " + m.err.Error()))
	case m.store == nil:
		b.WriteString(fmt.Sprintf("%s loading %s...", m.spinner.View(), m.cfg.Dataset.File))
	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			panelStyle.Render(m.overviewPanel()),
			panelStyle.Render(m.genderPanel()),
			panelStyle.Render(m.connectivityPanel()),
		))
	}

	b.WriteString(helpStyle.Render("\nq: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m dashboardModel) overviewPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Dataset"))
	fmt.Fprintf(&b, "\nfile       %s", m.cfg.Dataset.File)
	fmt.Fprintf(&b, "\nrecords    %d", m.store.Len())
	fmt.Fprintf(&b, "\nindexed    %d", m.store.IndexedLen())
	fmt.Fprintf(&b, "\nskipped    %d", m.loadStats.Skipped)
	fmt.Fprintf(&b, "\nload time  %s", m.loadStats.Elapsed.Round(time.Millisecond))
	if minAge, maxAge, ok := m.store.AgeBounds(); ok {
		fmt.Fprintf(&b, "\nages       %d-%d", minAge, maxAge)
	}
	return b.String()
}

func (m dashboardModel) genderPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("By gender"))

	counts := stats.CountByGender(m.store)
	averages := stats.AverageAgeByGender(m.store)
	for gender, count := range counts {
		if avg, ok := averages[gender]; ok {
			fmt.Fprintf(&b, "\n%-10s %6d  avg age %.1f", gender, count, avg)
		} else {
			fmt.Fprintf(&b, "\n%-10s %6d", gender, count)
		}
	}
	return b.String()
}

func (m dashboardModel) connectivityPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Connectivity"))
	fmt.Fprintf(&b, "\navg degree    %.2f", stats.AverageDegree(m.store))
	fmt.Fprintf(&b, "\nmedian degree %d", stats.MedianDegree(m.store))
	b.WriteString("\n\n" + headerStyle.Render("Most connected"))
	for _, e := range stats.MostConnected(m.store, 5) {
		fmt.Fprintf(&b, "\n#%-8d %d", uint32(e.ID), e.Degree)
	}
	return b.String()
}

// runTUI opens the dashboard and blocks until the user quits.
func runTUI(ctx context.Context, cfg *Config, logger *recgo.Logger) error {
	program := tea.NewProgram(newDashboardModel(cfg, logger), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
