package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/repository"
	"github.com/senyabanana/trade-service/internal/statemachine"
	"github.com/senyabanana/trade-service/internal/utils"
)

type PartnerService struct {
	Repo repository.PartnerRepository
}

// NewPartnerService создает новый экземпляр PartnerService.
func NewPartnerService(repo repository.PartnerRepository) *PartnerService {
	return &PartnerService{Repo: repo}
}

// CheckCandidate проверяет, может ли исполнитель стать партнером заказчика.
func (s *PartnerService) CheckCandidate(ctx context.Context, outsourcerId, contractorId string) (*models.Eligibility, error) {
	if outsourcerId == "" || contractorId == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameters: outsourcerId or contractorId")
	}

	eligibility, err := statemachine.IsPartnerCandidate(ctx, s.Repo, outsourcerId, contractorId)
	if errors.Is(err, repository.ErrOutsourcerNotFound) {
		return nil, models.NewErrorResponse(http.StatusNotFound, "outsourcer not found")
	}
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check partner eligibility")
	}
	return &eligibility, nil
}

// Apply приглашает исполнителя в партнеры, если он проходит все проверки.
func (s *PartnerService) Apply(ctx context.Context, req models.PartnerRequest) (*models.Partner, error) {
	eligibility, err := s.CheckCandidate(ctx, req.OutsourcerID, req.ContractorID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Candidate {
		return nil, models.NewErrorResponse(http.StatusConflict, fmt.Sprintf("contractor is not a partner candidate: %s", eligibility.Reason))
	}
	return s.Repo.ApplyPartner(ctx, req.OutsourcerID, req.ContractorID)
}

// UpdateStatus меняет статус приглашения в партнеры.
func (s *PartnerService) UpdateStatus(ctx context.Context, outsourcerId, contractorId, status string) (*models.Partner, error) {
	if outsourcerId == "" || contractorId == "" || status == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameters: outsourcerId, contractorId or status")
	}

	current, err := s.Repo.PartnerRelation(ctx, outsourcerId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load partner")
	}
	if current == models.PartnerNone {
		return nil, models.NewErrorResponse(http.StatusNotFound, "partner not found")
	}

	allowedStateTransition := map[models.PartnerState][]models.PartnerState{
		models.PartnerApplied:  {models.PartnerAccepted, models.PartnerRejected},
		models.PartnerAccepted: {},
		models.PartnerRejected: {},
	}

	validTransition := allowedStateTransition[current]
	if !utils.ContainsPartnerState(validTransition, models.PartnerState(status)) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid partner status")
	}
	return s.Repo.UpdatePartnerState(ctx, outsourcerId, contractorId, models.PartnerState(status))
}
