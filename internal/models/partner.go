package models

import "time"

// PartnerState - статус партнерства заказчика и исполнителя.
type PartnerState string

const (
	PartnerNone     PartnerState = ""         // Связи нет
	PartnerApplied  PartnerState = "applied"  // Заказчик пригласил исполнителя
	PartnerAccepted PartnerState = "accepted" // Исполнитель принял приглашение
	PartnerRejected PartnerState = "rejected" // Исполнитель отклонил приглашение
)

// Ineligibility - причина, по которой исполнитель не может стать партнером.
type Ineligibility string

const (
	PartnerLimitReached  Ineligibility = "partner_limit_reached"
	OutsourcerBlocked    Ineligibility = "outsourcer_blocked"
	PartnerAlreadyExists Ineligibility = "partner_already_exists"
	NotInCandidateList   Ineligibility = "not_in_candidate_list"
)

// Partner представляет связь заказчика и исполнителя.
type Partner struct {
	OutsourcerID string       `json:"outsourcerId"`
	ContractorID string       `json:"contractorId"`
	State        PartnerState `json:"state"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// PartnerRequest представляет структуру запроса на партнерство.
type PartnerRequest struct {
	OutsourcerID string `json:"outsourcerId"`
	ContractorID string `json:"contractorId"`
}

// Eligibility - результат проверки кандидата в партнеры.
type Eligibility struct {
	OutsourcerID string        `json:"outsourcerId"`
	ContractorID string        `json:"contractorId"`
	Candidate    bool          `json:"candidate"`
	Reason       Ineligibility `json:"reason,omitempty"`
}
