package services

import (
	"testing"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var resp *models.ErrorResponse
	require.ErrorAs(t, err, &resp)
	assert.Equal(t, status, resp.StatusCode, resp.Message)
}
