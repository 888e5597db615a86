package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/orbitalworks/scenefetch/internal/adapters/driving/tui"
	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/core/ports/driving"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

var (
	retrieveSite        string
	retrieveAOIPath     string
	retrieveName        string
	retrieveFrom        string
	retrieveTo          string
	retrieveDest        string
	retrieveCloudCover  float64
	retrieveItemType    string
	retrieveBundle      string
	retrieveConcurrency int
	retrieveWatch       bool
	retrieveJSON        bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Search, order and download imagery for an area and date range",
	Long: `Runs the full order lifecycle for one area of interest: search the
provider catalogue for scenes acquired inside the date window, submit
clipped orders, wait for fulfillment, and download the delivered files
into the destination directory.

The area comes from a registered site (--site) or a GeoJSON file
(--aoi). Scenes whose imagery is already present in the destination
are skipped, so re-running a request is safe and cheap.

The command exits 0 whenever a report was produced, even if some
scenes failed; inspect the report (or use --json) for per-scene
outcomes. A non-zero exit means the retrieval could not run at all.

Examples:
  scenefetch retrieve --site jekyllisland --from 2024-07-01 --to 2024-08-30 --dest ./imagery
  scenefetch retrieve --aoi field.geojson --from 2024-07-01 --to 2024-07-15 --dest ./imagery --json`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().StringVar(&retrieveSite, "site", "", "name of a registered site to retrieve")
	retrieveCmd.Flags().StringVar(&retrieveAOIPath, "aoi", "", "GeoJSON file with an ad-hoc polygon")
	retrieveCmd.Flags().StringVar(&retrieveName, "name", "", "label for ad-hoc retrievals (default: AOI file name)")
	retrieveCmd.Flags().StringVar(&retrieveFrom, "from", "", "first acquisition date (YYYY-MM-DD)")
	retrieveCmd.Flags().StringVar(&retrieveTo, "to", "", "last acquisition date, inclusive (YYYY-MM-DD)")
	retrieveCmd.Flags().StringVar(&retrieveDest, "dest", "", "directory delivered files are written to")
	retrieveCmd.Flags().Float64Var(&retrieveCloudCover, "cloud-cover", 0, "maximum cloud fraction in [0,1] (default 0.3)")
	retrieveCmd.Flags().StringVar(&retrieveItemType, "item-type", "", "provider catalogue to search (default PSScene)")
	retrieveCmd.Flags().StringVar(&retrieveBundle, "bundle", "", "product bundle to order (default analytic)")
	retrieveCmd.Flags().IntVar(&retrieveConcurrency, "concurrency", 0, "parallel asset downloads (default 4)")
	retrieveCmd.Flags().BoolVar(&retrieveWatch, "watch", false, "show a live dashboard while the retrieval runs")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, _ []string) error {
	if newRetriever == nil {
		return errors.New("retriever not configured")
	}
	if retrieveWatch && retrieveJSON {
		return fmt.Errorf("%w: --watch and --json cannot be combined", domain.ErrInvalidRequest)
	}

	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}

	retriever := newRetriever(retrieveConcurrency)

	var report *domain.RetrievalReport
	switch {
	case retrieveWatch:
		report, err = retrieveWithDashboard(cmd, retriever, req)
	case retrieveJSON:
		// Keep stdout clean for the JSON document.
		report, err = retriever.Retrieve(cmd.Context(), req)
	default:
		report, err = retrieveWithProgress(cmd, retriever, req)
	}
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		return printReportJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

// buildRequest resolves flags into a retrieval request. The polygon
// comes from the site registry or a GeoJSON file, never both.
func buildRequest(cmd *cobra.Command) (domain.Request, error) {
	var req domain.Request

	switch {
	case retrieveSite != "" && retrieveAOIPath != "":
		return req, fmt.Errorf("%w: --site and --aoi cannot be combined", domain.ErrInvalidRequest)
	case retrieveSite != "":
		if siteManager == nil {
			return req, errors.New("site service not configured")
		}
		site, err := siteManager.Get(cmd.Context(), retrieveSite)
		if err != nil {
			return req, err
		}
		req.SiteName = site.Name
		req.AOI = site.AOI
	case retrieveAOIPath != "":
		ring, err := geometry.ReadGeoJSONFile(retrieveAOIPath)
		if err != nil {
			return req, err
		}
		req.SiteName = adHocName(retrieveName, retrieveAOIPath)
		req.AOI = ring
	default:
		return req, fmt.Errorf("%w: either --site or --aoi is required", domain.ErrInvalidRequest)
	}

	window, err := domain.ParseDateWindow(retrieveFrom, retrieveTo)
	if err != nil {
		return req, err
	}
	req.Window = window
	req.Destination = retrieveDest
	req.MaxCloudCover = retrieveCloudCover
	req.ItemType = retrieveItemType
	req.Bundle = retrieveBundle
	return req, nil
}

// adHocName derives a request label from --name or the AOI file name.
func adHocName(name, aoiPath string) string {
	if name != "" {
		return name
	}
	base := filepath.Base(aoiPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "adhoc"
	}
	return strings.ToLower(base)
}

// retrieveWithProgress runs the retrieval while printing status-line
// progress updates.
func retrieveWithProgress(
	cmd *cobra.Command,
	retriever driving.Retriever,
	req domain.Request,
) (*domain.RetrievalReport, error) {
	type outcome struct {
		report *domain.RetrievalReport
		err    error
	}

	// Run the retrieval in a goroutine and poll status every 500ms.
	resCh := make(chan outcome, 1)
	go func() {
		report, err := retriever.Retrieve(cmd.Context(), req)
		resCh <- outcome{report, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	printed := false
	for {
		select {
		case res := <-resCh:
			if printed {
				cmd.Println()
			}
			return res.report, res.err
		case <-ticker.C:
			cmd.Printf("\r%-64s", progressLine(retriever.Status()))
			printed = true
		}
	}
}

// retrieveWithDashboard runs the retrieval behind the bubbletea
// dashboard and returns the final report once the program exits.
func retrieveWithDashboard(
	cmd *cobra.Command,
	retriever driving.Retriever,
	req domain.Request,
) (report *domain.RetrievalReport, err error) {
	// Recover panics so a rendering bug cannot take down a retrieval
	// that may have half-finished orders behind it.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in dashboard: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("dashboard panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Retriever: retriever}, req)
	if err != nil {
		return nil, err
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	model, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("dashboard error: %w", err)
	}

	final, ok := model.(*tui.App)
	if !ok {
		return nil, errors.New("dashboard returned unexpected model")
	}
	return final.Outcome()
}

// progressLine renders one status snapshot as a single line.
func progressLine(s domain.RetrievalStatus) string {
	switch s.Phase {
	case domain.PhaseSearching:
		if s.ScenesFound > 0 {
			return fmt.Sprintf("Searching catalogue... %d scenes", s.ScenesFound)
		}
		return "Searching catalogue..."
	case domain.PhaseOrdering:
		return fmt.Sprintf("Submitting orders for %d scenes...", s.ScenesFound-s.ScenesSkipped)
	case domain.PhasePolling:
		return fmt.Sprintf("Waiting on orders... %d/%d fulfilled", s.OrdersDone, s.OrdersTotal)
	case domain.PhaseDownloading:
		line := fmt.Sprintf("Downloading assets... %d/%d", s.AssetsDone, s.AssetsTotal)
		if s.AssetsFailed > 0 {
			line += fmt.Sprintf(" (%d failed)", s.AssetsFailed)
		}
		return line
	case domain.PhaseDone:
		return "Finishing up..."
	default:
		return "Starting retrieval..."
	}
}

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	reportLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	reportOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	reportWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	reportErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// printReport renders the report as human-readable text.
func printReport(cmd *cobra.Command, r *domain.RetrievalReport) {
	duration := r.FinishedAt.Sub(r.StartedAt).Round(time.Second)

	cmd.Println(reportTitleStyle.Render(
		fmt.Sprintf("Retrieval report: %s (%s)", r.SiteName, r.Window.String())))

	row := func(label, value string) {
		cmd.Printf("  %s %s\n", reportLabelStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}

	row("Scenes found", fmt.Sprintf("%d", r.ScenesFound))
	row("Downloaded", reportOKStyle.Render(fmt.Sprintf("%d scenes, %d files", len(r.Downloaded), r.FilesWritten)))
	if len(r.SkippedExisting) > 0 {
		row("Already present", fmt.Sprintf("%d scenes", len(r.SkippedExisting)))
	}
	if len(r.Failed) > 0 {
		row("Failed", reportErrStyle.Render(fmt.Sprintf("%d scenes", len(r.Failed))))
	}
	if len(r.Orders) > 0 {
		row("Orders", orderSummary(r.Orders))
	}
	if r.ClipSimplified {
		row("Clip geometry", reportWarnStyle.Render(r.ClipNote))
	}
	row("Duration", duration.String())

	if len(r.Failed) > 0 {
		cmd.Println()
		cmd.Println(reportTitleStyle.Render("Failed scenes:"))
		for _, f := range r.Failed {
			cmd.Printf("  %s  %s\n",
				reportErrStyle.Render(fmt.Sprintf("%-24s [%s]", f.SceneID, f.Stage)), f.Reason)
		}
	}
}

// orderSummary renders order outcomes as "3 (2 success, 1 failed)".
func orderSummary(orders []domain.OrderOutcome) string {
	counts := make(map[string]int)
	for _, o := range orders {
		status := string(o.Status)
		if status == "" {
			status = "rejected"
		}
		counts[status]++
	}

	parts := make([]string, 0, len(counts))
	for _, status := range []string{"success", "partial", "failed", "cancelled", "rejected"} {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	return fmt.Sprintf("%d (%s)", len(orders), strings.Join(parts, ", "))
}

// reportDocument is the JSON shape of a retrieval report. Field names
// are part of the CLI contract; keep them stable.
type reportDocument struct {
	Site            string         `json:"site"`
	Window          string         `json:"window"`
	ScenesFound     int            `json:"scenes_found"`
	Downloaded      []string       `json:"downloaded"`
	SkippedExisting []string       `json:"skipped_existing"`
	Failed          []failureEntry `json:"failed"`
	Orders          []orderEntry   `json:"orders"`
	FilesWritten    int            `json:"files_written"`
	ClipSimplified  bool           `json:"clip_simplified"`
	ClipNote        string         `json:"clip_note,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
}

type failureEntry struct {
	SceneID string `json:"scene_id"`
	Stage   string `json:"stage"`
	Reason  string `json:"reason"`
}

type orderEntry struct {
	LocalID    string `json:"local_id"`
	OrderID    string `json:"order_id,omitempty"`
	Status     string `json:"status,omitempty"`
	SceneCount int    `json:"scene_count"`
}

func printReportJSON(cmd *cobra.Command, r *domain.RetrievalReport) error {
	doc := reportDocument{
		Site:            r.SiteName,
		Window:          r.Window.String(),
		ScenesFound:     r.ScenesFound,
		Downloaded:      r.Downloaded,
		SkippedExisting: r.SkippedExisting,
		Failed:          make([]failureEntry, 0, len(r.Failed)),
		Orders:          make([]orderEntry, 0, len(r.Orders)),
		FilesWritten:    r.FilesWritten,
		ClipSimplified:  r.ClipSimplified,
		ClipNote:        r.ClipNote,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
	}
	if doc.Downloaded == nil {
		doc.Downloaded = []string{}
	}
	if doc.SkippedExisting == nil {
		doc.SkippedExisting = []string{}
	}
	for _, f := range r.Failed {
		doc.Failed = append(doc.Failed, failureEntry{
			SceneID: f.SceneID,
			Stage:   string(f.Stage),
			Reason:  f.Reason,
		})
	}
	for _, o := range r.Orders {
		doc.Orders = append(doc.Orders, orderEntry{
			LocalID:    o.LocalID,
			OrderID:    o.OrderID,
			Status:     string(o.Status),
			SceneCount: o.SceneCount,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
