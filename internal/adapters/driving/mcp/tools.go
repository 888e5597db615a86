package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve_imagery tool.
type RetrieveInput struct {
	Site        string      `json:"site,omitempty" jsonschema:"name of a registered site to use as the area of interest"`
	AOI         [][]float64 `json:"aoi,omitempty" jsonschema:"ad-hoc polygon as [longitude,latitude] pairs, used when site is not set"`
	Name        string      `json:"name,omitempty" jsonschema:"label for ad-hoc retrievals (default adhoc)"`
	From        string      `json:"from" jsonschema:"first acquisition date, YYYY-MM-DD"`
	To          string      `json:"to" jsonschema:"last acquisition date, inclusive, YYYY-MM-DD"`
	Destination string      `json:"destination" jsonschema:"directory the delivered files are written to"`
	CloudCover  float64     `json:"cloud_cover,omitempty" jsonschema:"maximum cloud-cover fraction between 0 and 1 (default 0.3)"`
	ItemType    string      `json:"item_type,omitempty" jsonschema:"provider catalogue to search (default PSScene)"`
	Bundle      string      `json:"bundle,omitempty" jsonschema:"product bundle to order (default analytic)"`
}

// RetrieveOutput is the output schema for the retrieve_imagery tool.
type RetrieveOutput struct {
	Site            string          `json:"site"`
	Window          string          `json:"window"`
	ScenesFound     int             `json:"scenes_found"`
	Downloaded      []string        `json:"downloaded"`
	SkippedExisting []string        `json:"skipped_existing"`
	Failed          []FailureOutput `json:"failed"`
	FilesWritten    int             `json:"files_written"`
	ClipNote        string          `json:"clip_note,omitempty"`
}

// FailureOutput represents one scene that could not be delivered.
type FailureOutput struct {
	SceneID string `json:"scene_id"`
	Stage   string `json:"stage"`
	Reason  string `json:"reason"`
}

// ListSitesInput is the input schema for the list_sites tool.
type ListSitesInput struct{}

// ListSitesOutput is the output schema for the list_sites tool.
type ListSitesOutput struct {
	Sites []SiteOutput `json:"sites"`
	Count int          `json:"count"`
}

// SiteOutput represents a single registered site.
type SiteOutput struct {
	Name     string `json:"name"`
	Vertices int    `json:"vertices"`
	Notes    string `json:"notes,omitempty"`
	Updated  string `json:"updated"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "retrieve_imagery",
		Description: "Search, order and download satellite imagery for a polygon " +
			"and date range. Scenes already present in the destination are skipped. " +
			"Returns a per-scene report; failed scenes appear in the report rather " +
			"than failing the call.",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sites",
		Description: "List the registered named sites available for retrieval",
	}, s.handleListSites)
}

// handleRetrieve handles the retrieve_imagery tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	req, err := s.buildRequest(ctx, input)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	report, err := s.ports.Retriever.Retrieve(ctx, req)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Site:            report.SiteName,
		Window:          report.Window.String(),
		ScenesFound:     report.ScenesFound,
		Downloaded:      report.Downloaded,
		SkippedExisting: report.SkippedExisting,
		Failed:          make([]FailureOutput, len(report.Failed)),
		FilesWritten:    report.FilesWritten,
		ClipNote:        report.ClipNote,
	}
	if output.Downloaded == nil {
		output.Downloaded = []string{}
	}
	if output.SkippedExisting == nil {
		output.SkippedExisting = []string{}
	}
	for i, f := range report.Failed {
		output.Failed[i] = FailureOutput{
			SceneID: f.SceneID,
			Stage:   string(f.Stage),
			Reason:  f.Reason,
		}
	}

	return nil, output, nil
}

// buildRequest resolves the tool input into a retrieval request.
func (s *Server) buildRequest(ctx context.Context, input RetrieveInput) (domain.Request, error) {
	var req domain.Request

	switch {
	case input.Site != "" && len(input.AOI) > 0:
		return req, fmt.Errorf("%w: site and aoi cannot be combined", domain.ErrInvalidRequest)
	case input.Site != "":
		if s.ports.Sites == nil {
			return req, fmt.Errorf("%w: site registry is not available", domain.ErrInvalidRequest)
		}
		site, err := s.ports.Sites.Get(ctx, input.Site)
		if err != nil {
			return req, err
		}
		req.SiteName = site.Name
		req.AOI = site.AOI
	case len(input.AOI) > 0:
		ring, err := ringFromPairs(input.AOI)
		if err != nil {
			return req, err
		}
		req.SiteName = input.Name
		if req.SiteName == "" {
			req.SiteName = "adhoc"
		}
		req.AOI = ring
	default:
		return req, fmt.Errorf("%w: either site or aoi is required", domain.ErrInvalidRequest)
	}

	window, err := domain.ParseDateWindow(input.From, input.To)
	if err != nil {
		return req, err
	}
	req.Window = window
	req.Destination = input.Destination
	req.MaxCloudCover = input.CloudCover
	req.ItemType = input.ItemType
	req.Bundle = input.Bundle
	return req, nil
}

// handleListSites handles the list_sites tool invocation.
func (s *Server) handleListSites(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSitesInput,
) (*mcp.CallToolResult, ListSitesOutput, error) {
	output := ListSitesOutput{Sites: []SiteOutput{}}
	if s.ports.Sites == nil {
		return nil, output, nil
	}

	sites, err := s.ports.Sites.List(ctx)
	if err != nil {
		return nil, ListSitesOutput{}, err
	}

	output.Sites = make([]SiteOutput, len(sites))
	output.Count = len(sites)
	for i, site := range sites {
		output.Sites[i] = SiteOutput{
			Name:     site.Name,
			Vertices: site.AOI.Vertices(),
			Notes:    site.Notes,
			Updated:  site.UpdatedAt.Format(domain.DateLayout),
		}
	}

	return nil, output, nil
}

// ringFromPairs converts [lon,lat] pairs into a ring.
func ringFromPairs(pairs [][]float64) (domain.Ring, error) {
	ring := make(domain.Ring, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: aoi point %d must be a [longitude,latitude] pair",
				domain.ErrInvalidGeometry, i)
		}
		ring = append(ring, domain.Point{Lon: pair[0], Lat: pair[1]})
	}
	return ring, nil
}
