package models

import "time"

// DefaultAppointmentDuration is used when a professional is created without one.
const DefaultAppointmentDuration = 30

// WorkingHours is a professional's schedule for one weekday. The break is
// optional; when present both ends are set.
type WorkingHours struct {
	DayOfWeek  int    `bson:"dayOfWeek" json:"dayOfWeek" binding:"gte=0,lte=6"` // 0 = Sunday
	StartTime  string `bson:"startTime" json:"startTime" binding:"required,hhmm"`
	EndTime    string `bson:"endTime" json:"endTime" binding:"required,hhmm"`
	BreakStart string `bson:"breakStart,omitempty" json:"breakStart,omitempty" binding:"omitempty,hhmm"`
	BreakEnd   string `bson:"breakEnd,omitempty" json:"breakEnd,omitempty" binding:"omitempty,hhmm"`
}

// HasBreak reports whether both break bounds are set.
func (w WorkingHours) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

type Professional struct {
	ID                  string         `bson:"id" json:"id"`
	Name                string         `bson:"name" json:"name"`
	Email               string         `bson:"email" json:"email"`
	Phone               string         `bson:"phone" json:"phone"`
	Specialty           string         `bson:"specialty" json:"specialty"`
	BranchID            string         `bson:"branchId" json:"branchId"`
	WorkingHours        []WorkingHours `bson:"workingHours" json:"workingHours"`
	AppointmentDuration int            `bson:"appointmentDuration" json:"appointmentDuration"` // minutes
	IsActive            bool           `bson:"isActive" json:"isActive"`
	CreatedAt           time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type CreateProfessionalRequest struct {
	Name                string         `json:"name" binding:"required,min=2,max=100"`
	Email               string         `json:"email" binding:"required,email"`
	Phone               string         `json:"phone" binding:"required,min=8,max=20"`
	Specialty           string         `json:"specialty" binding:"required,max=100"`
	BranchID            string         `json:"branchId" binding:"required"`
	WorkingHours        []WorkingHours `json:"workingHours" binding:"required,min=1,dive"`
	AppointmentDuration int            `json:"appointmentDuration" binding:"omitempty,min=5,max=480"`
}
