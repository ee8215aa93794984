package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"farmiq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingAndListMine(t *testing.T) {
	app, _, _, token := setupTestServer(t)

	resp := authedJSON(t, app, http.MethodPost, "/api/iot/bookings", token, map[string]string{
		"sensor_type": "soil_moisture",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Booking models.SensorBooking `json:"booking"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, models.BookingStatusPending, created.Booking.Status)
	assert.Equal(t, "soil_moisture", created.Booking.SensorType)

	resp = authedJSON(t, app, http.MethodGet, "/api/iot/bookings/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Bookings []models.SensorBooking `json:"bookings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed.Bookings, 1)
}

func TestCreateBooking_UnknownSensor(t *testing.T) {
	app, _, _, token := setupTestServer(t)

	resp := authedJSON(t, app, http.MethodPost, "/api/iot/bookings", token, map[string]string{
		"sensor_type": "seismograph",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetReadings_NoActiveBooking(t *testing.T) {
	app, _, _, token := setupTestServer(t)

	resp := authedJSON(t, app, http.MethodGet, "/api/iot/readings", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminUpdateBooking(t *testing.T) {
	app, s, db, farmerToken := setupTestServer(t)

	admin := &models.User{
		Username: "admin_asha",
		Email:    "asha2@example.com",
		Password: "irrelevant",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	adminToken, err := s.generateToken(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)

	booking := &models.SensorBooking{
		UserID:     1,
		SensorType: "npk",
		Status:     models.BookingStatusPending,
	}
	require.NoError(t, db.Create(booking).Error)

	t.Run("Farmer Forbidden", func(t *testing.T) {
		resp := authedJSON(t, app, http.MethodPut, "/api/admin/bookings/1", farmerToken, map[string]string{
			"status": models.BookingStatusActive,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin Activates With Channel", func(t *testing.T) {
		resp := authedJSON(t, app, http.MethodPut, "/api/admin/bookings/1", adminToken, map[string]string{
			"status":     models.BookingStatusActive,
			"channel_id": "2599430",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stored models.SensorBooking
		require.NoError(t, db.First(&stored, booking.ID).Error)
		assert.Equal(t, models.BookingStatusActive, stored.Status)
		assert.Equal(t, "2599430", stored.ChannelID)
	})
}
