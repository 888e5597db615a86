package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

const (
	// uriScheme is the custom URI scheme for scenefetch resources.
	uriScheme = "scenefetch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing sites.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sites",
		Name:        "sites",
		Description: "List of all registered named sites",
		MIMEType:    "application/json",
	}, s.handleSitesResource)

	// Template for a site's polygon as GeoJSON.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sites/{name}/geometry",
		Name:        "site-geometry",
		Description: "A registered site's polygon as a GeoJSON geometry",
		MIMEType:    "application/geo+json",
	}, s.handleSiteGeometryResource)
}

// handleSitesResource returns a list of all registered sites.
func (s *Server) handleSitesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sites == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	sites, err := s.ports.Sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}

	infos := make([]SiteOutput, len(sites))
	for i, site := range sites {
		infos[i] = SiteOutput{
			Name:     site.Name,
			Vertices: site.AOI.Vertices(),
			Notes:    site.Notes,
			Updated:  site.UpdatedAt.Format(domain.DateLayout),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sites: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSiteGeometryResource returns a site's polygon as GeoJSON.
func (s *Server) handleSiteGeometryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sites == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract the site name from scenefetch://sites/{name}/geometry
	name := extractSiteName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	site, err := s.ports.Sites.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getting site: %w", err)
	}

	data, err := geometry.ToGeoJSON(site.AOI)
	if err != nil {
		return nil, fmt.Errorf("encoding site polygon: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/geo+json",
			Text:     string(data),
		}},
	}, nil
}

// extractSiteName extracts the site name from a URI like
// scenefetch://sites/{name}/geometry.
func extractSiteName(uri string) string {
	const prefix = uriScheme + "sites/"
	const suffix = "/geometry"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
