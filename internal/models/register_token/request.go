package models

type RegisterTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	Platform   string `json:"platform" binding:"required,oneof=web ios android"`
	DailyVerse bool   `json:"dailyVerse"`
}
