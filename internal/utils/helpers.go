package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/sirupsen/logrus"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		logrus.WithError(err).Error("failed to encode error response")
	}
}

// SendJSON отправляет ответ в формате JSON
func SendJSON(w http.ResponseWriter, statusCode int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(payload)
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 5
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// ParseAudience обрабатывает аудиторию группировки, по умолчанию - экран исполнителя
func ParseAudience(audienceStr string) (models.Audience, error) {
	switch models.Audience(audienceStr) {
	case "", models.WorkerAudience:
		return models.WorkerAudience, nil
	case models.AdminAudience:
		return models.AdminAudience, nil
	}
	return "", fmt.Errorf("invalid audience parameter, must be 'worker' or 'admin'")
}

// ParseRole обрабатывает роль участника, по умолчанию - исполнитель
func ParseRole(roleStr string) (models.TradeRole, error) {
	switch models.TradeRole(roleStr) {
	case "", models.Contractor:
		return models.Contractor, nil
	case models.Outsourcer:
		return models.Outsourcer, nil
	}
	return "", fmt.Errorf("invalid role parameter, must be 'outsourcer' or 'contractor'")
}

// ContainsPartnerState - функция для проверки перехода у партнерства
func ContainsPartnerState(validStates []models.PartnerState, newState models.PartnerState) bool {
	for _, validState := range validStates {
		if validState == newState {
			return true
		}
	}
	return false
}
