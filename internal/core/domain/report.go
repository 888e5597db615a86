package domain

import (
	"sort"
	"time"
)

// Stage identifies where in the pipeline a scene failed.
type Stage string

const (
	// StageSearch covers discovery failures.
	StageSearch Stage = "search"
	// StageSubmit covers order submission failures.
	StageSubmit Stage = "submit"
	// StagePoll covers order fulfillment failures (provider-side
	// failure, partial delivery, wait budget exhaustion).
	StagePoll Stage = "poll"
	// StageDownload covers asset download and verification failures.
	StageDownload Stage = "download"
)

// SceneFailure records one scene the retrieval could not deliver,
// with the stage it failed at and the reason.
type SceneFailure struct {
	// SceneID is the affected scene.
	SceneID string

	// Stage is where the failure occurred.
	Stage Stage

	// Reason is a human-readable cause.
	Reason string
}

// OrderOutcome summarises one provider order in the report.
type OrderOutcome struct {
	// LocalID is the pre-submission correlation ID.
	LocalID string

	// OrderID is the provider-assigned ID, empty if submission
	// never succeeded.
	OrderID string

	// Status is the final observed status. Empty if the order was
	// never accepted by the provider.
	Status OrderStatus

	// SceneCount is the number of scenes in the order.
	SceneCount int
}

// RetrievalReport is the outcome of one retrieval run. Built
// incrementally by the coordinator and returned to the caller even when
// individual scenes, orders or downloads failed; only configuration
// errors prevent a report.
type RetrievalReport struct {
	// SiteName echoes the request.
	SiteName string

	// Window echoes the requested date range.
	Window DateWindow

	// ScenesFound is the deduplicated scene count matching the search.
	ScenesFound int

	// Downloaded lists scene IDs with all deliverables written.
	Downloaded []string

	// SkippedExisting lists scene IDs skipped because their imagery
	// was already present in the destination.
	SkippedExisting []string

	// Failed lists scenes that could not be delivered, with reasons.
	Failed []SceneFailure

	// Orders summarises every provider order the request spawned.
	Orders []OrderOutcome

	// FilesWritten counts the asset files written this run.
	FilesWritten int

	// ClipSimplified reports that the clip geometry was simplified to
	// fit the provider's vertex limit.
	ClipSimplified bool

	// ClipNote describes the simplification when ClipSimplified.
	ClipNote string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Sort puts every list in its canonical order so identical outcomes
// yield identical reports regardless of download interleaving.
func (r *RetrievalReport) Sort() {
	sort.Strings(r.Downloaded)
	sort.Strings(r.SkippedExisting)
	sort.Slice(r.Failed, func(i, j int) bool {
		if r.Failed[i].SceneID != r.Failed[j].SceneID {
			return r.Failed[i].SceneID < r.Failed[j].SceneID
		}
		return r.Failed[i].Stage < r.Failed[j].Stage
	})
	sort.Slice(r.Orders, func(i, j int) bool {
		return r.Orders[i].LocalID < r.Orders[j].LocalID
	})
}

// FetchOutcome is the result of fetching one asset.
type FetchOutcome string

const (
	// FetchDownloaded means the asset was downloaded and verified.
	FetchDownloaded FetchOutcome = "downloaded"
	// FetchSkippedExisting means a complete copy was already present.
	FetchSkippedExisting FetchOutcome = "skipped_existing"
)

// RetrievalPhase labels the coordinator's progress for status polling.
type RetrievalPhase string

const (
	// PhaseIdle means no retrieval has started.
	PhaseIdle RetrievalPhase = "idle"
	// PhaseSearching means scene discovery is in progress.
	PhaseSearching RetrievalPhase = "searching"
	// PhaseOrdering means orders are being assembled and submitted.
	PhaseOrdering RetrievalPhase = "ordering"
	// PhasePolling means submitted orders are awaiting fulfillment.
	PhasePolling RetrievalPhase = "polling"
	// PhaseDownloading means ready assets are being fetched.
	PhaseDownloading RetrievalPhase = "downloading"
	// PhaseDone means the report is final.
	PhaseDone RetrievalPhase = "done"
)

// RetrievalStatus is a point-in-time snapshot of retrieval progress,
// safe to poll from another goroutine.
type RetrievalStatus struct {
	// Phase is the coordinator's current stage.
	Phase RetrievalPhase

	// ScenesFound is the running deduplicated scene count.
	ScenesFound int

	// ScenesSkipped counts scenes skipped as already present.
	ScenesSkipped int

	// OrdersTotal and OrdersDone track order fulfillment.
	OrdersTotal int
	OrdersDone  int

	// AssetsTotal, AssetsDone and AssetsFailed track downloads.
	AssetsTotal  int
	AssetsDone   int
	AssetsFailed int
}
