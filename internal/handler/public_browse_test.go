package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

func setupPublicTest(t *testing.T) (*PublicHandler, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := &PublicHandler{
		StationRepo: repository.NewStationRepo(db),
		RJRepo:      repository.NewRJRepo(db),
		SlotRepo:    repository.NewSlotRepo(db),
	}
	return h, mock, func() { db.Close() }
}

func TestGetPublicStationsHidesOwnerFields(t *testing.T) {
	h, mock, cleanup := setupPublicTest(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("FROM stations ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "frequency", "city", "contact_email", "created_at", "updated_at"}).
			AddRow(1, 9, "Radio Mirchi", "98.3 FM", "Mumbai", "ops@mirchi.example", now, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/stations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetPublicStations(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Radio Mirchi", body.Items[0]["name"])
	// owner and contact address must not leak to guests
	assert.NotContains(t, body.Items[0], "owner_id")
	assert.NotContains(t, body.Items[0], "contact_email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublicSlotsByStationRejectsBadDate(t *testing.T) {
	h, mock, cleanup := setupPublicTest(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("FROM stations WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "frequency", "city", "contact_email", "created_at", "updated_at"}).
			AddRow(1, 9, "Radio Mirchi", "98.3 FM", "Mumbai", "ops@mirchi.example", now, now))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/1/slots?date=14-03-2026", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.GetPublicSlotsByStation(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublicSlotsByStationUnknownStation(t *testing.T) {
	h, mock, cleanup := setupPublicTest(t)
	defer cleanup()

	mock.ExpectQuery("FROM stations WHERE id").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "frequency", "city", "contact_email", "created_at", "updated_at"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/stations/42/slots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.GetPublicSlotsByStation(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
