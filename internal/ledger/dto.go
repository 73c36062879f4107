package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
)

// TransactionResponse is the wire shape of one ledger entry.
type TransactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	PartID        uuid.UUID  `json:"part_id"`
	Type          string     `json:"transaction_type"`
	Quantity      int        `json:"quantity"`
	Reason        string     `json:"reason"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type"`
	CreatedAt     string     `json:"created_at"`
}

// TransactionPageResponse is the wire shape of paginated ledger history.
type TransactionPageResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextCursor   string                `json:"next_cursor,omitempty"`
}

// NewTransactionPageResponse maps a page of ledger rows onto its wire shape.
func NewTransactionPageResponse(page *TransactionPage) TransactionPageResponse {
	resp := TransactionPageResponse{NextCursor: page.NextCursor, Transactions: []TransactionResponse{}}
	for _, txn := range page.Transactions {
		resp.Transactions = append(resp.Transactions, newTransactionResponse(txn))
	}
	return resp
}

func newTransactionResponse(txn models.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            txn.ID,
		PartID:        txn.PartID,
		Type:          txn.Type.String(),
		Quantity:      txn.Quantity,
		Reason:        txn.Reason,
		ReferenceID:   txn.ReferenceID,
		ReferenceType: txn.ReferenceType.String(),
		CreatedAt:     txn.CreatedAt.UTC().Format(time.RFC3339),
	}
}
