package handlers

import (
	"net/http"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/utils"

	"github.com/sirupsen/logrus"
)

// sendServiceError отправляет ошибку сервиса; ошибки без кода отдаются как 500 с текстом fallback.
func sendServiceError(logger *logrus.Logger, w http.ResponseWriter, err error, fallback string) {
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		logger.WithField("status", errorResponse.StatusCode).Warn(errorResponse.Message)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	logger.WithError(err).Error(fallback)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
