package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no-show"
)

// HoldsSlot reports whether an appointment in this status occupies its time range.
func (s AppointmentStatus) HoldsSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// SlotHoldingStatuses lists the statuses for which HoldsSlot is true.
var SlotHoldingStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

type Appointment struct {
	ID             string            `bson:"id" json:"id"`
	ClientName     string            `bson:"clientName" json:"clientName"`
	ClientEmail    string            `bson:"clientEmail" json:"clientEmail"`
	ClientPhone    string            `bson:"clientPhone" json:"clientPhone"`
	ProfessionalID string            `bson:"professionalId" json:"professionalId"`
	BranchID       string            `bson:"branchId" json:"branchId"`
	Date           string            `bson:"date" json:"date"` // "YYYY-MM-DD"
	StartTime      string            `bson:"startTime" json:"startTime"`
	EndTime        string            `bson:"endTime" json:"endTime"`
	Status         AppointmentStatus `bson:"status" json:"status"`
	// HoldsSlot mirrors Status.HoldsSlot() so the unique index can be partial on it.
	HoldsSlot    bool       `bson:"holdsSlot" json:"-"`
	Amount       float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	Notes        string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CancelReason string     `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	ClientName     string  `json:"clientName" binding:"required,min=2,max=100"`
	ClientEmail    string  `json:"clientEmail" binding:"required,email"`
	ClientPhone    string  `json:"clientPhone" binding:"required,min=8,max=20"`
	ProfessionalID string  `json:"professionalId" binding:"required"`
	BranchID       string  `json:"branchId"`
	Date           string  `json:"date" binding:"required,isodate"`
	StartTime      string  `json:"startTime" binding:"required,hhmm"`
	EndTime        string  `json:"endTime" binding:"required,hhmm"`
	Amount         float64 `json:"amount" binding:"gte=0"`
	Notes          string  `json:"notes" binding:"max=500"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ProfessionalSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type BranchSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	ProvinceName string `json:"provinceName,omitempty"`
}

// AppointmentDetails is an appointment with its professional and branch resolved.
type AppointmentDetails struct {
	Appointment  Appointment          `json:"appointment"`
	Professional *ProfessionalSummary `json:"professional,omitempty"`
	Branch       *BranchSummary       `json:"branch,omitempty"`
}
