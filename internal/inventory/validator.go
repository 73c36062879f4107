package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/internal/bom"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
)

// CartLine is one prospective order line to validate. A nil SetID marks a
// non-physical charge (shipping, fees) that never consumes parts.
type CartLine struct {
	SetID    *uuid.UUID `json:"set_id"`
	Quantity int        `json:"quantity"`
}

// InsufficientPart describes one part that cannot cover a line's demand.
type InsufficientPart struct {
	PartID    uuid.UUID `json:"part_id"`
	PartName  string    `json:"part_name"`
	Required  int       `json:"required"`
	Available int       `json:"available"`
	Shortfall int       `json:"shortfall"`
}

// LineResult is the validation verdict for one cart line.
type LineResult struct {
	SetID             *uuid.UUID         `json:"set_id"`
	Quantity          int                `json:"quantity"`
	Valid             bool               `json:"valid"`
	PartsConfigured   bool               `json:"parts_configured"`
	InsufficientParts []InsufficientPart `json:"insufficient_parts,omitempty"`
}

// ValidationSummary aggregates line verdicts.
type ValidationSummary struct {
	TotalItems   int `json:"total_items"`
	ValidItems   int `json:"valid_items"`
	InvalidItems int `json:"invalid_items"`
}

// ValidationResult is the full stock check outcome. It is advisory only:
// nothing is reserved and stock may change before the order is placed.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Results []LineResult      `json:"results"`
	Summary ValidationSummary `json:"summary"`
}

// Validator answers "could this cart be assembled right now?" without
// touching stock.
type Validator struct {
	resolver *bom.Resolver
	parts    Repository
	logg     *logger.Logger
}

// NewValidator wires the stock validator.
func NewValidator(resolver *bom.Resolver, parts Repository, logg *logger.Logger) (*Validator, error) {
	if resolver == nil || parts == nil || logg == nil {
		return nil, fmt.Errorf("validator dependencies missing")
	}
	return &Validator{resolver: resolver, parts: parts, logg: logg}, nil
}

// Validate checks each line independently. A line passes when every mandatory
// part of its set covers the resolved demand; a set with no BOM entries fails
// with parts_configured=false so catalog gaps surface before orders do.
func (v *Validator) Validate(ctx context.Context, lines []CartLine) (*ValidationResult, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	result := &ValidationResult{Valid: true}
	for idx, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: quantity must be positive", idx))
		}
		if line.SetID == nil {
			// Non-physical charge line: always valid.
			result.Results = append(result.Results, LineResult{
				SetID:           nil,
				Quantity:        line.Quantity,
				Valid:           true,
				PartsConfigured: true,
			})
			continue
		}

		lineResult, err := v.validateLine(ctx, *line.SetID, line.Quantity)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, *lineResult)
	}

	for _, line := range result.Results {
		result.Summary.TotalItems++
		if line.Valid {
			result.Summary.ValidItems++
		} else {
			result.Summary.InvalidItems++
			result.Valid = false
		}
	}
	return result, nil
}

func (v *Validator) validateLine(ctx context.Context, setID uuid.UUID, qty int) (*LineResult, error) {
	resolution, err := v.resolver.Resolve(ctx, setID, qty)
	if err != nil {
		return nil, err
	}

	lineResult := &LineResult{
		SetID:           &setID,
		Quantity:        qty,
		PartsConfigured: resolution.Configured,
	}
	if !resolution.Configured {
		scoped := v.logg.WithSetID(ctx, setID.String())
		v.logg.Warn(scoped, "set has no parts configured")
		return lineResult, nil
	}

	partIDs := make([]uuid.UUID, 0, len(resolution.Requirements))
	for _, req := range resolution.Requirements {
		partIDs = append(partIDs, req.PartID)
	}
	parts, err := v.parts.FindPartsByIDs(ctx, partIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parts")
	}
	stockByID := make(map[uuid.UUID]int, len(parts))
	for _, part := range parts {
		stockByID[part.ID] = part.StockQuantity
	}

	for _, req := range resolution.Requirements {
		available := stockByID[req.PartID] // missing part row counts as zero
		if available >= req.QuantityNeeded {
			continue
		}
		lineResult.InsufficientParts = append(lineResult.InsufficientParts, InsufficientPart{
			PartID:    req.PartID,
			PartName:  req.PartName,
			Required:  req.QuantityNeeded,
			Available: available,
			Shortfall: req.QuantityNeeded - available,
		})
	}
	lineResult.Valid = len(lineResult.InsufficientParts) == 0
	return lineResult, nil
}
