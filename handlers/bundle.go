package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Health
	Health gin.HandlerFunc
	// Metrics is optional; /metrics is only mounted when it is set.
	Metrics gin.HandlerFunc

	// Provinces
	ListProvinces  gin.HandlerFunc
	GetProvince    gin.HandlerFunc
	CreateProvince gin.HandlerFunc

	// Branches
	ListBranchesByProvince gin.HandlerFunc
	GetBranch              gin.HandlerFunc
	CreateBranch           gin.HandlerFunc

	// Professionals
	ListProfessionalsByBranch gin.HandlerFunc
	GetProfessional           gin.HandlerFunc
	GetWorkingHours           gin.HandlerFunc
	CreateProfessional        gin.HandlerFunc

	// Appointments
	GetAvailableSlots gin.HandlerFunc
	CheckTimeSlot     gin.HandlerFunc
	CreateAppointment gin.HandlerFunc
	GetAppointment    gin.HandlerFunc
	CancelAppointment gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(ah *AppointmentHandler, dh *DirectoryHandler) *HandlerBundle {
	return &HandlerBundle{
		Health: HealthHandler,

		ListProvinces:  dh.ListProvinces,
		GetProvince:    dh.GetProvince,
		CreateProvince: dh.CreateProvince,

		ListBranchesByProvince: dh.ListBranchesByProvince,
		GetBranch:              dh.GetBranch,
		CreateBranch:           dh.CreateBranch,

		ListProfessionalsByBranch: dh.ListProfessionalsByBranch,
		GetProfessional:           dh.GetProfessional,
		GetWorkingHours:           ah.GetWorkingHours,
		CreateProfessional:        dh.CreateProfessional,

		GetAvailableSlots: ah.GetAvailableSlots,
		CheckTimeSlot:     ah.CheckTimeSlot,
		CreateAppointment: ah.CreateAppointment,
		GetAppointment:    ah.GetAppointment,
		CancelAppointment: ah.CancelAppointment,
	}
}
