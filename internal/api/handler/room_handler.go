package handler

import (
	"net/http"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"go.uber.org/zap"
)

type RoomHandler struct {
	rooms  *service.RoomService
	logger *zap.Logger
}

func NewRoomHandler(rooms *service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, logger: logger}
}

// CreateRoomRequest тело POST /api/room
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// List GET /api/room
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, nonNil(rooms))
}

// Create POST /api/room, только сотрудники
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, model.FieldGeneral, "Malformed request body.")
		return
	}

	room, v, err := h.rooms.CreateRoom(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if !v.Empty() {
		writeViolations(w, h.logger, v)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, room)
}
