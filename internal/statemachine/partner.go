package statemachine

import (
	"context"

	"github.com/senyabanana/trade-service/internal/models"
)

// PartnerFacts - источник данных для проверки кандидата в партнеры.
type PartnerFacts interface {
	PartnerUsage(ctx context.Context, outsourcerID string) (count, limit int, err error)
	IsBlocked(ctx context.Context, contractorID, outsourcerID string) (bool, error)
	PartnerRelation(ctx context.Context, outsourcerID, contractorID string) (models.PartnerState, error)
	IsInCandidateList(ctx context.Context, outsourcerID, contractorID string) (bool, error)
}

// IsPartnerCandidate проверяет, может ли исполнитель стать партнером заказчика.
// Проверки выполняются по порядку и прерываются на первой неудачной:
// лимит партнеров, блокировка заказчика исполнителем, существующая связь, список кандидатов.
func IsPartnerCandidate(ctx context.Context, facts PartnerFacts, outsourcerID, contractorID string) (models.Eligibility, error) {
	result := models.Eligibility{OutsourcerID: outsourcerID, ContractorID: contractorID}

	count, limit, err := facts.PartnerUsage(ctx, outsourcerID)
	if err != nil {
		return result, err
	}
	if count >= limit {
		result.Reason = models.PartnerLimitReached
		return result, nil
	}

	blocked, err := facts.IsBlocked(ctx, contractorID, outsourcerID)
	if err != nil {
		return result, err
	}
	if blocked {
		result.Reason = models.OutsourcerBlocked
		return result, nil
	}

	relation, err := facts.PartnerRelation(ctx, outsourcerID, contractorID)
	if err != nil {
		return result, err
	}
	if relation == models.PartnerApplied || relation == models.PartnerAccepted {
		result.Reason = models.PartnerAlreadyExists
		return result, nil
	}

	inList, err := facts.IsInCandidateList(ctx, outsourcerID, contractorID)
	if err != nil {
		return result, err
	}
	if !inList {
		result.Reason = models.NotInCandidateList
		return result, nil
	}

	result.Candidate = true
	return result, nil
}
