package model

import "time"

// Operation selects what a batch run computes per item.
type Operation string

const (
	OperationPrice    Operation = "price"
	OperationMetadata Operation = "metadata"
	OperationBoth     Operation = "both"
)

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, bool) {
	switch Operation(s) {
	case OperationPrice, OperationMetadata, OperationBoth:
		return Operation(s), true
	}
	return "", false
}

// Error kinds recorded in batch result slots.
const (
	ErrorKindValidation = "validation"
	ErrorKindInternal   = "internal"
	ErrorKindTruncated  = "truncated"
)

// ItemError is a structured per-item failure. It occupies the failed item's
// slot in the batch results so that output count always equals input count.
type ItemError struct {
	Kind      string `json:"error_kind"`
	Message   string `json:"message"`
	ItemIndex int    `json:"item_index"`
}

// BatchResult is one output slot of a batch run. Exactly one of Price,
// Metadata (or both, for operation "both") and Error is populated.
type BatchResult struct {
	Index    int                    `json:"index"`
	Price    *PriceAdjustmentResult `json:"price_analysis,omitempty"`
	Metadata *MetadataResult        `json:"metadata,omitempty"`
	Error    *ItemError             `json:"error,omitempty"`
}

// BatchStats summarizes a batch run. Skipped counts items left unprocessed
// by a soft deadline or cancellation; those slots carry truncated errors.
type BatchStats struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Truncated bool          `json:"truncated"`
	Duration  time.Duration `json:"duration"`
}
