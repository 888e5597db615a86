package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui/components/status"
	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui/keymap"
	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui/styles"
	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// statusPollInterval is how often the dashboard samples the
// retriever's status.
const statusPollInterval = 250 * time.Millisecond

// statusTickMsg prompts one status poll.
type statusTickMsg struct{}

// retrievalDoneMsg carries the final report once the retrieval
// goroutine returns.
type retrievalDoneMsg struct {
	report *domain.RetrievalReport
	err    error
}

// App is the retrieval dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea: the retrieval runs
// in a background command while the model polls status and renders
// progress.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// req is the retrieval being watched.
	req domain.Request

	// ctx and cancel bound the retrieval; quitting early cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	// styles holds the dashboard styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// spin animates while work is in flight.
	spin spinner.Model

	// assets renders download completion.
	assets progress.Model

	// footer is the state and keybinding bar.
	footer *status.Bar

	// started is when the dashboard launched, for the elapsed clock.
	started time.Time

	// st is the latest sampled status.
	st domain.RetrievalStatus

	// report and err hold the final outcome once done.
	report *domain.RetrievalReport
	err    error
	done   bool

	// showDetail toggles the request parameter section.
	showDetail bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard for one retrieval request.
func NewApp(ports *Ports, req domain.Request) (*App, error) {
	if ports == nil {
		return nil, ErrMissingRetriever
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating dashboard: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Subtitle),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ports:  ports,
		req:    req,
		ctx:    ctx,
		cancel: cancel,
		styles: s,
		keys:   km,
		spin:   spin,
		assets: progress.New(progress.WithDefaultGradient()),
		footer: status.NewBar(s, km),
		width:  80,
	}, nil
}

// WithContext derives the retrieval's context from ctx, replacing the
// default background context. Call before the program runs.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model.
// It starts the retrieval and the status poll loop.
func (a *App) Init() tea.Cmd {
	a.started = time.Now()
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("scenefetch"),
		a.spin.Tick,
		a.startRetrieval(),
		a.scheduleStatusPoll(),
	)
}

// startRetrieval runs the retrieval in the background and delivers
// the outcome as a message.
func (a *App) startRetrieval() tea.Cmd {
	return func() tea.Msg {
		report, err := a.ports.Retriever.Retrieve(a.ctx, a.req)
		return retrievalDoneMsg{report: report, err: err}
	}
}

// scheduleStatusPoll emits a statusTickMsg after the poll interval.
func (a *App) scheduleStatusPoll() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.footer.SetWidth(msg.Width)
		a.assets.Width = progressWidth(msg.Width)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keys.Quit):
			a.cancel()
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keys.Detail):
			a.showDetail = !a.showDetail
			return a, nil
		}
		return a, nil

	case statusTickMsg:
		if a.done {
			return a, nil
		}
		a.st = a.ports.Retriever.Status()
		a.footer.SetState(status.StateRunning)
		a.footer.SetMessage(fmt.Sprintf("elapsed %s", time.Since(a.started).Round(time.Second)))
		return a, a.scheduleStatusPoll()

	case retrievalDoneMsg:
		a.done = true
		a.report = msg.report
		a.err = msg.err
		a.st = a.ports.Retriever.Status()
		if msg.err != nil {
			a.footer.SetState(status.StateFailed)
			a.footer.SetMessage(msg.err.Error())
		} else {
			a.footer.SetState(status.StateDone)
			a.footer.SetMessage(fmt.Sprintf("done in %s", time.Since(a.started).Round(time.Second)))
		}
		// The final report is rendered by the caller after exit.
		return a, tea.Quit

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render("scenefetch"),
		a.styles.Muted.Render(fmt.Sprintf("%s  %s", a.req.SiteName, a.req.Window.String())),
		"",
		a.renderPhase(),
		a.renderCounts(),
	}

	if bar := a.renderAssets(); bar != "" {
		sections = append(sections, "", bar)
	}
	if a.showDetail {
		sections = append(sections, "", a.renderDetail())
	}
	if a.err != nil {
		sections = append(sections, "", a.styles.Error.Render("Error: "+a.err.Error()))
	}
	sections = append(sections, "", a.footer.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPhase renders the spinner and current pipeline stage.
func (a *App) renderPhase() string {
	if a.done {
		if a.err != nil {
			return a.styles.Error.Render("Retrieval failed")
		}
		return a.styles.Success.Render("Retrieval complete")
	}
	return fmt.Sprintf("%s %s", a.spin.View(), a.styles.Normal.Render(phaseLabel(a.st)))
}

// phaseLabel names the current stage for display.
func phaseLabel(st domain.RetrievalStatus) string {
	switch st.Phase {
	case domain.PhaseSearching:
		return "Searching the catalogue"
	case domain.PhaseOrdering:
		return "Submitting orders"
	case domain.PhasePolling:
		return fmt.Sprintf("Waiting on orders (%d/%d fulfilled)", st.OrdersDone, st.OrdersTotal)
	case domain.PhaseDownloading:
		return "Downloading assets"
	case domain.PhaseDone:
		return "Finishing up"
	default:
		return "Starting"
	}
}

// renderCounts renders the running counters.
func (a *App) renderCounts() string {
	parts := []string{fmt.Sprintf("scenes %d", a.st.ScenesFound)}
	if a.st.ScenesSkipped > 0 {
		parts = append(parts, fmt.Sprintf("already present %d", a.st.ScenesSkipped))
	}
	if a.st.OrdersTotal > 0 {
		parts = append(parts, fmt.Sprintf("orders %d/%d", a.st.OrdersDone, a.st.OrdersTotal))
	}
	if a.st.AssetsFailed > 0 {
		parts = append(parts, a.styles.Error.Render(fmt.Sprintf("failed %d", a.st.AssetsFailed)))
	}
	return a.styles.Muted.Render(strings.Join(parts, " | "))
}

// renderAssets renders the download progress bar once downloads have
// a known total.
func (a *App) renderAssets() string {
	if a.st.AssetsTotal == 0 {
		return ""
	}

	completed := a.st.AssetsDone + a.st.AssetsFailed
	pct := float64(completed) / float64(a.st.AssetsTotal)
	label := a.styles.Muted.Render(fmt.Sprintf("%d/%d assets", completed, a.st.AssetsTotal))

	return lipgloss.JoinVertical(lipgloss.Left, a.assets.ViewAs(pct), label)
}

// renderDetail renders the request parameters.
func (a *App) renderDetail() string {
	rows := []string{
		fmt.Sprintf("destination   %s", a.req.Destination),
		fmt.Sprintf("item type     %s", a.req.EffectiveItemType()),
		fmt.Sprintf("bundle        %s", a.req.EffectiveBundle()),
		fmt.Sprintf("cloud cover   <= %.0f%%", a.req.CloudCover()*100),
		fmt.Sprintf("polygon       %d vertices", a.req.AOI.Vertices()),
	}
	return a.styles.Border.Padding(0, 1).Render(
		a.styles.Muted.Render(strings.Join(rows, "\n")))
}

// Outcome returns the retrieval's final report and error once the
// program has exited. Quitting before completion reports cancellation.
func (a *App) Outcome() (*domain.RetrievalReport, error) {
	if a.report == nil && a.err == nil {
		return nil, errors.New("retrieval cancelled before completion")
	}
	return a.report, a.err
}

// progressWidth sizes the asset bar to the terminal.
func progressWidth(width int) int {
	w := width - 8
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}
