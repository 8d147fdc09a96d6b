package models

import "time"

// BusinessHours is one weekday of a branch's opening schedule.
type BusinessHours struct {
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	OpenTime  string `bson:"openTime" json:"openTime"`
	CloseTime string `bson:"closeTime" json:"closeTime"`
	IsClosed  bool   `bson:"isClosed" json:"isClosed"`
}

type Branch struct {
	ID            string          `bson:"id" json:"id"`
	Name          string          `bson:"name" json:"name"`
	ProvinceID    string          `bson:"provinceId" json:"provinceId"`
	Address       string          `bson:"address" json:"address"`
	Phone         string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Email         string          `bson:"email,omitempty" json:"email,omitempty"`
	BusinessHours []BusinessHours `bson:"businessHours" json:"businessHours"`
	IsActive      bool            `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// BranchView is a branch with its province name resolved.
type BranchView struct {
	Branch
	ProvinceName string `json:"provinceName,omitempty"`
}

type CreateBranchRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=100"`
	ProvinceID    string          `json:"provinceId" binding:"required"`
	Address       string          `json:"address" binding:"required,max=200"`
	Phone         string          `json:"phone" binding:"omitempty,max=20"`
	Email         string          `json:"email" binding:"omitempty,email"`
	BusinessHours []BusinessHours `json:"businessHours" binding:"dive"`
}
