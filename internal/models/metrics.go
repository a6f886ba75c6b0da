package models

import "time"

// OperationMetrics is the single timing and outcome record emitted for every
// create operation. It is written once and never persisted.
type OperationMetrics struct {
	OperationID         string        `json:"operationId"`
	ProductName         string        `json:"productName"`
	SKU                 string        `json:"sku"`
	Category            Category      `json:"category"`
	ValidationDuration  time.Duration `json:"validationDuration"`
	PersistenceDuration time.Duration `json:"persistenceDuration"`
	TotalDuration       time.Duration `json:"totalDuration"`
	Success             bool          `json:"success"`
	ErrorReason         string        `json:"errorReason,omitempty"`
	FailedPhase         string        `json:"failedPhase,omitempty"`
}
