package services

import (
	"fmt"

	"github.com/orbitalworks/scenefetch/internal/core/domain"
	"github.com/orbitalworks/scenefetch/internal/geometry"
	"github.com/orbitalworks/scenefetch/internal/logger"
)

// OrderAssembler partitions discovered scenes into provider orders.
// Assembly is deterministic: scenes are sorted into canonical order
// before batching, so the same search results always produce the same
// orders with the same batch boundaries.
type OrderAssembler struct {
	newID func() string
}

// NewOrderAssembler creates an assembler. newID generates order
// correlation IDs; the composition root passes uuid.NewString.
func NewOrderAssembler(newID func() string) *OrderAssembler {
	return &OrderAssembler{newID: newID}
}

// Assemble builds the order set for a request. The clip geometry is
// the normalized AOI; rings over the provider's vertex limit are
// simplified rather than rejected, and the simplification is recorded
// on every order it applies to.
func (a *OrderAssembler) Assemble(req *domain.Request, aoi domain.AOI, scenes []domain.SceneRecord) []domain.OrderRequest {
	if len(scenes) == 0 {
		return nil
	}

	clip := aoi.Ring
	simplified := false
	originalVertices := aoi.Vertices()
	if originalVertices > domain.MaxClipVertices {
		clip, simplified = geometry.Simplify(aoi.Ring, domain.MaxClipVertices)
		logger.Warn("Clip geometry simplified from %d to %d vertices to fit the provider limit",
			originalVertices, clip.Vertices())
	}

	sorted := make([]domain.SceneRecord, len(scenes))
	copy(sorted, scenes)
	domain.SortScenes(sorted)

	batches := (len(sorted) + domain.MaxScenesPerOrder - 1) / domain.MaxScenesPerOrder
	orders := make([]domain.OrderRequest, 0, batches)
	for i := 0; i < batches; i++ {
		lo := i * domain.MaxScenesPerOrder
		hi := lo + domain.MaxScenesPerOrder
		if hi > len(sorted) {
			hi = len(sorted)
		}

		ids := make([]string, 0, hi-lo)
		for _, scene := range sorted[lo:hi] {
			ids = append(ids, scene.SceneID)
		}

		order := domain.OrderRequest{
			LocalID:  a.newID(),
			Name:     orderName(req, i+1, batches),
			SceneIDs: ids,
			ItemType: req.EffectiveItemType(),
			Bundle:   req.EffectiveBundle(),
			Clip:     clip.Clone(),
		}
		if simplified {
			order.ClipSimplified = true
			order.ClipOriginalVertices = originalVertices
		}
		orders = append(orders, order)
	}
	return orders
}

// orderName builds the provider-visible order name. Single-order
// requests omit the part suffix.
func orderName(req *domain.Request, part, total int) string {
	base := fmt.Sprintf("%s_%s_%s",
		req.SiteName,
		req.Window.Start.Format("20060102"),
		req.Window.End.Format("20060102"))
	if total == 1 {
		return base
	}
	return fmt.Sprintf("%s_part%02d", base, part)
}
