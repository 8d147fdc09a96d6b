package handlers

import (
	"net/http"

	"turnos/models"
	"turnos/services/availability"
	"turnos/services/booking"
	"turnos/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves availability queries and the booking lifecycle.
type AppointmentHandler struct {
	Availability availability.Service
	Booking      booking.Service
}

func NewAppointmentHandler(av availability.Service, bk booking.Service) *AppointmentHandler {
	return &AppointmentHandler{Availability: av, Booking: bk}
}

// GetAvailableSlots handles GET /api/appointments/availability/:professionalId/:date.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	slots, err := h.Availability.GetAvailableSlots(c.Request.Context(), c.Param("professionalId"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, slots, "")
}

// CheckTimeSlot handles GET /api/appointments/availability/:professionalId/:date/check.
func (h *AppointmentHandler) CheckTimeSlot(c *gin.Context) {
	check := models.SlotCheck{
		ProfessionalID: c.Param("professionalId"),
		Date:           c.Param("date"),
		StartTime:      c.Query("startTime"),
		EndTime:        c.Query("endTime"),
	}
	ok, err := h.Availability.IsTimeSlotAvailable(c.Request.Context(), check.ProfessionalID, check.Date, check.StartTime, check.EndTime)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	check.Available = ok
	utils.JSONOK(c, http.StatusOK, check, "")
}

// GetWorkingHours handles GET /api/professionals/:professionalId/working-hours/:date.
// The data is null when the professional does not work that day.
func (h *AppointmentHandler) GetWorkingHours(c *gin.Context) {
	hours, err := h.Availability.GetWorkingHours(c.Request.Context(), c.Param("professionalId"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": hours})
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment request", utils.ValidationMessage(err))
		return
	}
	appt, err := h.Booking.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		getLogger(c).Info("appointment rejected",
			zap.String("professionalId", req.ProfessionalID),
			zap.String("date", req.Date),
			zap.String("kind", string(utils.KindOf(err))),
		)
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusCreated, appt, "Appointment created")
}

func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	details, err := h.Booking.GetAppointmentDetails(c.Request.Context(), c.Param("appointmentId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, details, "")
}

// CancelAppointment accepts an optional {"reason": "..."} body.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req models.CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid cancel request", utils.ValidationMessage(err))
			return
		}
	}
	if err := h.Booking.CancelAppointment(c.Request.Context(), c.Param("appointmentId"), req.Reason); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONOK(c, http.StatusOK, nil, "Appointment cancelled")
}
