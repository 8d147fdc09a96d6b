package models

// TimeSlot is one candidate appointment window of a professional's day.
type TimeSlot struct {
	StartTime   string `json:"startTime"` // "HH:MM"
	EndTime     string `json:"endTime"`   // "HH:MM"
	IsAvailable bool   `json:"isAvailable"`
}

// SlotCheck is the answer to a single interval availability query.
type SlotCheck struct {
	ProfessionalID string `json:"professionalId"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Available      bool   `json:"available"`
}
