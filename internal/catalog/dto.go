package catalog

import (
	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
)

// PartResponse is the wire shape of a catalog part.
type PartResponse struct {
	ID                uuid.UUID `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	StockQuantity     int       `json:"stock_quantity"`
	MinimumStockLevel int       `json:"minimum_stock_level"`
}

// SetPartResponse is the wire shape of one bill-of-materials entry.
type SetPartResponse struct {
	PartID     uuid.UUID `json:"part_id"`
	PartName   string    `json:"part_name"`
	Quantity   string    `json:"quantity"`
	IsOptional bool      `json:"is_optional"`
}

// NewPartResponse maps a part onto its wire shape.
func NewPartResponse(part models.Part) PartResponse {
	return PartResponse{
		ID:                part.ID,
		SKU:               part.SKU,
		Name:              part.Name,
		StockQuantity:     part.StockQuantity,
		MinimumStockLevel: part.MinimumStockLevel,
	}
}

// NewSetPartResponses maps BOM entries onto their wire shape.
func NewSetPartResponses(entries []models.SetPart) []SetPartResponse {
	resp := make([]SetPartResponse, 0, len(entries))
	for _, entry := range entries {
		name := ""
		if entry.Part != nil {
			name = entry.Part.Name
		}
		resp = append(resp, SetPartResponse{
			PartID:     entry.PartID,
			PartName:   name,
			Quantity:   entry.Quantity.String(),
			IsOptional: entry.IsOptional,
		})
	}
	return resp
}
