package planet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/geometry"
)

// toarScaleFactor converts top-of-atmosphere reflectance to 16-bit
// integers the way downstream radiometry tooling expects.
const toarScaleFactor = 10000

// orderRequest is the Orders API submission body.
type orderRequest struct {
	Name     string         `json:"name"`
	Products []orderProduct `json:"products"`
	Tools    []orderTool    `json:"tools,omitempty"`
}

type orderProduct struct {
	ItemIDs       []string `json:"item_ids"`
	ItemType      string   `json:"item_type"`
	ProductBundle string   `json:"product_bundle"`
}

// orderTool is one entry of the processing pipeline. Exactly one field
// is set per entry.
type orderTool struct {
	Clip *clipTool `json:"clip,omitempty"`
	TOAR *toarTool `json:"toar,omitempty"`
}

type clipTool struct {
	AOI *geojson.Geometry `json:"aoi"`
}

type toarTool struct {
	ScaleFactor int `json:"scale_factor"`
}

// orderStatusResponse is the Orders API order representation, returned
// by both submission and status endpoints.
type orderStatusResponse struct {
	ID          string         `json:"id"`
	State       string         `json:"state"`
	LastMessage string         `json:"last_message"`
	Products    []orderProduct `json:"products"`
	Links       orderLinks     `json:"_links"`
}

type orderLinks struct {
	Results []orderResult `json:"results"`
}

// orderResult is one delivery entry: a path-like name and an expiring
// signed location.
type orderResult struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Delivery string `json:"delivery"`
}

// deliveryManifest is the order's manifest.json, the authoritative
// size and digest list for delivered files.
type deliveryManifest struct {
	Files []manifestFile `json:"files"`
}

type manifestFile struct {
	Path    string            `json:"path"`
	Size    int64             `json:"size"`
	Digests map[string]string `json:"digests"`
}

// SubmitOrder submits a batch of scenes for processing and returns the
// provider's order ID. Deliverables are clipped to the request
// geometry and converted to top-of-atmosphere reflectance.
func (c *Client) SubmitOrder(ctx context.Context, order domain.OrderRequest) (string, error) {
	payload := orderRequest{
		Name: order.Name,
		Products: []orderProduct{{
			ItemIDs:       order.SceneIDs,
			ItemType:      order.ItemType,
			ProductBundle: order.Bundle,
		}},
	}
	if len(order.Clip) > 0 {
		payload.Tools = append(payload.Tools, orderTool{
			Clip: &clipTool{
				AOI: geojson.NewGeometry(orb.Polygon{geometry.ToOrb(order.Clip)}),
			},
		})
	}
	payload.Tools = append(payload.Tools, orderTool{
		TOAR: &toarTool{ScaleFactor: toarScaleFactor},
	})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.ordersURL, body)
	if err != nil {
		return "", err
	}

	var out orderStatusResponse
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("submit order: response carries no order id")
	}
	return out.ID, nil
}

// PollOrder fetches the current state of a submitted order. Once the
// order reaches a delivered state the snapshot carries its ready
// deliverables, enriched with manifest sizes and digests when the
// delivery manifest is readable.
func (c *Client) PollOrder(ctx context.Context, orderID string) (*domain.OrderSnapshot, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.ordersURL+"/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}

	var out orderStatusResponse
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("poll order: %w", err)
	}

	snapshot := &domain.OrderSnapshot{
		OrderID: orderID,
		Status:  domain.OrderStatus(out.State),
		Message: out.LastMessage,
	}
	if !snapshot.Status.Delivered() {
		return snapshot, nil
	}

	snapshot.Assets = collectAssets(orderID, out)
	c.attachManifest(ctx, snapshot.Assets)
	return snapshot, nil
}

// collectAssets maps delivery results to asset descriptors. Scene
// attribution comes from the order's own item list: delivery filenames
// embed the scene ID they derive from, while order-level entries like
// the manifest match nothing and stay unattributed.
func collectAssets(orderID string, out orderStatusResponse) []domain.AssetDescriptor {
	var sceneIDs []string
	for _, p := range out.Products {
		sceneIDs = append(sceneIDs, p.ItemIDs...)
	}

	assets := make([]domain.AssetDescriptor, 0, len(out.Links.Results))
	for _, r := range out.Links.Results {
		if r.Location == "" {
			continue
		}
		assets = append(assets, domain.AssetDescriptor{
			OrderID:     orderID,
			SceneID:     sceneFor(path.Base(r.Name), sceneIDs),
			Name:        r.Name,
			DownloadURL: r.Location,
		})
	}
	return assets
}

// sceneFor matches a delivery filename to one of the order's scenes by
// the embedded scene ID.
func sceneFor(filename string, sceneIDs []string) string {
	for _, id := range sceneIDs {
		if id != "" && strings.Contains(filename, id) {
			return id
		}
	}
	return ""
}

// attachManifest fills in asset sizes and MD5 digests from the order's
// delivery manifest so downloads can verify integrity. A missing or
// unreadable manifest leaves the assets unenriched and verification is
// skipped downstream.
func (c *Client) attachManifest(ctx context.Context, assets []domain.AssetDescriptor) {
	var manifestURL string
	for _, a := range assets {
		if a.Filename() == "manifest.json" {
			manifestURL = a.DownloadURL
			break
		}
	}
	if manifestURL == "" {
		return
	}

	var manifest deliveryManifest
	if err := c.fetchJSON(ctx, manifestURL, &manifest); err != nil {
		return
	}

	for _, file := range manifest.Files {
		if file.Path == "" {
			continue
		}
		for i := range assets {
			if strings.HasSuffix(assets[i].Name, file.Path) {
				assets[i].Size = file.Size
				assets[i].Checksum = file.Digests["md5"]
				break
			}
		}
	}
}
