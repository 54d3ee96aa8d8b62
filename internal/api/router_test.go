package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/room_booking/internal/api/handler"
	"github.com/Freeeeeet/room_booking/internal/api/middleware"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/memory"
	"github.com/Freeeeeet/room_booking/internal/service"
)

type testServer struct {
	handler http.Handler
	auth    *middleware.Authenticator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	logger := zap.NewNop()
	store := memory.NewStore()
	registry := prometheus.NewRegistry()

	rooms := service.NewRoomService(store, logger)
	for _, name := range []string{"A", "B"} {
		_, v, err := rooms.CreateRoom(ctx, name)
		require.NoError(t, err)
		require.True(t, v.Empty())
	}

	accounts := service.NewAccountService(store, logger)
	for _, a := range []model.Account{
		{ID: "e12345", Role: model.RoleStaff, FirstName: "Matthew", LastName: "Bolger"},
		{ID: "s1234567", Role: model.RoleStudent, FirstName: "Kevin", LastName: "Nguyen"},
		{ID: "s7654321", Role: model.RoleStudent, FirstName: "Olivier", LastName: "Dupont"},
	} {
		account := a
		v, err := accounts.Register(ctx, &account)
		require.NoError(t, err)
		require.True(t, v.Empty())
	}

	auth := middleware.NewAuthenticator("test-secret", logger)

	return &testServer{
		auth: auth,
		handler: NewRouter(Deps{
			Booking:  service.NewBookingService(store, service.NewMetrics(registry), logger),
			Slots:    service.NewSlotService(store),
			Rooms:    rooms,
			Store:    store,
			Auth:     auth,
			Gatherer: registry,
			Logger:   logger,
		}),
	}
}

func (s *testServer) do(t *testing.T, method, path, accountID string, role model.Role, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if accountID != "" {
		token, err := s.auth.IssueToken(model.Actor{AccountID: accountID, Role: role}, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) model.Violations {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Errors
}

func TestSlotLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	start := time.Date(2019, 1, 1, 13, 0, 0, 0, time.UTC)

	rec := s.do(t, http.MethodPost, "/api/slot", "e12345", model.RoleStaff,
		handler.CreateSlotRequest{RoomID: "A", StartTime: start})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/slot/A/01-01-2019/13:00", "s1234567", model.RoleStudent,
		handler.UpdateSlotRequest{StudentID: "s1234567"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var slot model.Slot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&slot))
	assert.Equal(t, "s1234567", slot.Occupant())

	rec = s.do(t, http.MethodGet, "/api/slot/student/s1234567", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slots []model.Slot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&slots))
	require.Len(t, slots, 1)

	rec = s.do(t, http.MethodDelete, "/api/slot/A/2019-01-01/13:00", "e12345", model.RoleStaff, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Cannot remove slot as a student has been booked into it."}, decodeErrors(t, rec).Messages())

	rec = s.do(t, http.MethodPut, "/api/slot/A/01-01-2019/13:00", "s1234567", model.RoleStudent,
		handler.UpdateSlotRequest{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/slot/A/01-01-2019/13:00", "e12345", model.RoleStaff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/slot", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateSlotViolationsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/slot", "e12345", model.RoleStaff,
		handler.CreateSlotRequest{RoomID: "Z", StartTime: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC)})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.Violations{{Field: model.FieldRoomID, Message: "Room Z does not exist."}}, decodeErrors(t, rec))
}

func TestSlotWritesRequireRole(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/slot", "", "", handler.CreateSlotRequest{RoomID: "A"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/slot", "s1234567", model.RoleStudent, handler.CreateSlotRequest{RoomID: "A"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/slot/A/01-01-2019/13:00", "s1234567", model.RoleStudent,
		handler.UpdateSlotRequest{StudentID: "s7654321"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/slot", "e99999", model.RoleStaff,
		handler.CreateSlotRequest{RoomID: "A", StartTime: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListingsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/slot/staff/e99999", "", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.Violations{{Field: model.FieldStaffID, Message: "Staff does not exist."}}, decodeErrors(t, rec))

	rec = s.do(t, http.MethodGet, "/api/room", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []model.Room
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rooms))
	assert.Len(t, rooms, 2)

	rec = s.do(t, http.MethodPost, "/api/room", "e12345", model.RoleStaff, handler.CreateRoomRequest{Name: "A"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Room A already exists."}, decodeErrors(t, rec).Messages())

	rec = s.do(t, http.MethodPut, "/api/slot/A/not-a-date/13:00", "s1234567", model.RoleStudent, handler.UpdateSlotRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/health/ready", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var health handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, "UP", health.Checks["store"].Status)

	s.do(t, http.MethodPost, "/api/slot", "e12345", model.RoleStaff,
		handler.CreateSlotRequest{RoomID: "Z", StartTime: time.Date(2019, 1, 1, 8, 0, 0, 0, time.UTC)})
	rec = s.do(t, http.MethodGet, "/metrics", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `room_booking_workflows_total{outcome="rejected",workflow="create"} 1`)
}
