package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestGetConfig_ExposesTitleAndUsersOnly(t *testing.T) {
	h := NewConfigHandler(testConfig(), testLogger())

	app := fiber.New()
	app.Get("/api/config", h.GetConfig)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/config", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Album Shuffle", body["appTitle"])
	assert.Len(t, body["users"], 2)
	assert.NotContains(t, body, "storage")
	assert.NotContains(t, body, "backup")
}
