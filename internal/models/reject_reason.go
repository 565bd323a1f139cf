package models

// RejectedReason представляет запись справочника причин отклонения предложения.
type RejectedReason struct {
	ID             int    `json:"id" yaml:"id"`
	Label          string `json:"label" yaml:"label"`
	RequiresDetail bool   `json:"requiresDetail" yaml:"requires_detail"`
}
