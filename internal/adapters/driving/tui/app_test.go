package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

func testRequest(t *testing.T) domain.Request {
	t.Helper()

	window, err := domain.ParseDateWindow("2024-07-01", "2024-08-30")
	require.NoError(t, err)

	return domain.Request{
		SiteName: "jekyllisland",
		AOI: domain.Ring{
			{Lon: -81.5, Lat: 31.0},
			{Lon: -81.3, Lat: 31.0},
			{Lon: -81.3, Lat: 31.2},
			{Lon: -81.5, Lat: 31.2},
			{Lon: -81.5, Lat: 31.0},
		},
		Window:      window,
		Destination: "/tmp/imagery",
	}
}

func newTestApp(t *testing.T) (*App, *MockRetriever) {
	t.Helper()

	retriever := &MockRetriever{}
	app, err := NewApp(&Ports{Retriever: retriever}, testRequest(t))
	require.NoError(t, err)
	return app, retriever
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app)
	assert.False(t, app.done)
}

func TestNewApp_MissingRetriever(t *testing.T) {
	_, err := NewApp(&Ports{}, domain.Request{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRetriever)
}

func TestApp_WindowSizeSetsReady(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, "Initialising...", app.View())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	updated := model.(*App)
	assert.True(t, updated.ready)
	assert.NotEqual(t, "Initialising...", updated.View())
}

func TestApp_StatusTickSamplesRetriever(t *testing.T) {
	app, retriever := newTestApp(t)
	retriever.SetStatus(domain.RetrievalStatus{
		Phase:       domain.PhaseSearching,
		ScenesFound: 7,
	})

	model, cmd := app.Update(statusTickMsg{})

	updated := model.(*App)
	assert.Equal(t, 7, updated.st.ScenesFound)
	assert.Equal(t, domain.PhaseSearching, updated.st.Phase)
	// The poll loop reschedules itself while the retrieval runs.
	assert.NotNil(t, cmd)
}

func TestApp_StatusTickStopsWhenDone(t *testing.T) {
	app, _ := newTestApp(t)
	app.done = true

	_, cmd := app.Update(statusTickMsg{})

	assert.Nil(t, cmd)
}

func TestApp_QuitCancelsRetrieval(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	select {
	case <-app.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("quit did not cancel the retrieval context")
	}
}

func TestApp_RetrievalDoneRecordsReport(t *testing.T) {
	app, _ := newTestApp(t)
	report := &domain.RetrievalReport{SiteName: "jekyllisland", ScenesFound: 3}

	model, cmd := app.Update(retrievalDoneMsg{report: report})

	updated := model.(*App)
	assert.True(t, updated.done)

	got, err := updated.Outcome()
	require.NoError(t, err)
	assert.Equal(t, report, got)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_RetrievalDoneRecordsError(t *testing.T) {
	app, _ := newTestApp(t)
	failure := errors.New("authentication required")

	model, _ := app.Update(retrievalDoneMsg{err: failure})

	updated := model.(*App)
	_, err := updated.Outcome()
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, updated.View(), "Retrieval failed")
}

func TestApp_OutcomeBeforeCompletion(t *testing.T) {
	app, _ := newTestApp(t)

	_, err := app.Outcome()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestApp_DetailToggle(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.NotContains(t, app.View(), "destination")

	app.Update(keyMsg("d"))
	assert.Contains(t, app.View(), "destination")

	app.Update(keyMsg("d"))
	assert.NotContains(t, app.View(), "destination")
}

func TestApp_ViewShowsPhaseAndCounts(t *testing.T) {
	app, retriever := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	retriever.SetStatus(domain.RetrievalStatus{
		Phase:       domain.PhasePolling,
		ScenesFound: 12,
		OrdersTotal: 3,
		OrdersDone:  1,
	})
	app.Update(statusTickMsg{})

	view := app.View()
	assert.Contains(t, view, "Waiting on orders (1/3 fulfilled)")
	assert.Contains(t, view, "scenes 12")
}

func TestApp_ViewShowsDownloadProgress(t *testing.T) {
	app, retriever := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	retriever.SetStatus(domain.RetrievalStatus{
		Phase:       domain.PhaseDownloading,
		ScenesFound: 12,
		AssetsTotal: 24,
		AssetsDone:  6,
	})
	app.Update(statusTickMsg{})

	assert.Contains(t, app.View(), "6/24 assets")
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	parent, cancel := context.WithCancel(context.Background())
	app.WithContext(parent)
	cancel()

	select {
	case <-app.ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("retrieval context did not follow the parent")
	}
}

func TestApp_RetrievalRunsAgainstAppContext(t *testing.T) {
	app, retriever := newTestApp(t)

	var got context.Context
	retriever.RetrieveFunc = func(ctx context.Context, _ domain.Request) (*domain.RetrievalReport, error) {
		got = ctx
		return &domain.RetrievalReport{}, nil
	}

	msg := app.startRetrieval()()

	assert.IsType(t, retrievalDoneMsg{}, msg)
	assert.Equal(t, app.ctx, got)
}
