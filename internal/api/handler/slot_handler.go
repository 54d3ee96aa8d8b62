package handler

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/room_booking/internal/api/middleware"
	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"go.uber.org/zap"
)

type SlotHandler struct {
	booking *service.BookingService
	slots   *service.SlotService
	logger  *zap.Logger
}

func NewSlotHandler(booking *service.BookingService, slots *service.SlotService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{booking: booking, slots: slots, logger: logger}
}

// CreateSlotRequest тело POST /api/slot
type CreateSlotRequest struct {
	RoomID    string    `json:"roomId"`
	StartTime time.Time `json:"startTime"`
}

// UpdateSlotRequest тело PUT /api/slot/{roomName}/{startDate}/{startTime}
type UpdateSlotRequest struct {
	StudentID string `json:"studentId"`
}

// List GET /api/slot
func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.slots.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, nonNil(slots))
}

// ListByStudent GET /api/slot/student/{studentId}
func (h *SlotHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	slots, v, err := h.slots.ListByStudent(r.Context(), r.PathValue("studentId"))
	h.writeListing(w, r, slots, v, err)
}

// ListByStaff GET /api/slot/staff/{staffId}
func (h *SlotHandler) ListByStaff(w http.ResponseWriter, r *http.Request) {
	slots, v, err := h.slots.ListByStaff(r.Context(), r.PathValue("staffId"))
	h.writeListing(w, r, slots, v, err)
}

// Create POST /api/slot, только сотрудники
func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	var req CreateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, model.FieldGeneral, "Malformed request body.")
		return
	}

	res, err := h.booking.Create(r.Context(), model.CreateSlot{
		RoomID:    req.RoomID,
		StartTime: req.StartTime.UTC(),
		StaffID:   actor.AccountID,
	})
	h.writeResult(w, r, http.StatusCreated, res, err)
}

// Update PUT /api/slot/{roomName}/{startDate}/{startTime}, только студенты.
// Непустой studentId бронирует слот, пустой снимает бронь.
func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	start, ok := h.slotStart(w, r)
	if !ok {
		return
	}

	var req UpdateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, model.FieldGeneral, "Malformed request body.")
		return
	}

	roomID := r.PathValue("roomName")

	if req.StudentID == "" {
		res, err := h.booking.Cancel(r.Context(), model.CancelSlot{
			RoomID:    roomID,
			StartTime: start,
			StudentID: actor.AccountID,
		})
		h.writeResult(w, r, http.StatusOK, res, err)
		return
	}

	if req.StudentID != actor.AccountID {
		writeMessage(w, h.logger, http.StatusForbidden, model.FieldStudentID, "Students can only book slots for themselves.")
		return
	}

	res, err := h.booking.Book(r.Context(), model.BookSlot{
		RoomID:    roomID,
		StartTime: start,
		StudentID: actor.AccountID,
	})
	h.writeResult(w, r, http.StatusOK, res, err)
}

// Delete DELETE /api/slot/{roomName}/{startDate}/{startTime}, только сотрудники
func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())

	start, ok := h.slotStart(w, r)
	if !ok {
		return
	}

	res, err := h.booking.Remove(r.Context(), model.RemoveSlot{
		RoomID:    r.PathValue("roomName"),
		StartTime: start,
		StaffID:   actor.AccountID,
	})
	h.writeResult(w, r, http.StatusOK, res, err)
}

func (h *SlotHandler) slotStart(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	start, err := parseSlotStart(r.PathValue("startDate"), r.PathValue("startTime"))
	if err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, model.FieldStartTime, "The StartTime field is invalid.")
		return time.Time{}, false
	}
	return start, true
}

func (h *SlotHandler) writeResult(w http.ResponseWriter, r *http.Request, status int, res *service.Result, err error) {
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if !res.OK() {
		writeViolations(w, h.logger, res.Violations)
		return
	}
	writeJSON(w, h.logger, status, res.Slot)
}

func (h *SlotHandler) writeListing(w http.ResponseWriter, r *http.Request, slots []model.Slot, v model.Violations, err error) {
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if !v.Empty() {
		writeViolations(w, h.logger, v)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, nonNil(slots))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
