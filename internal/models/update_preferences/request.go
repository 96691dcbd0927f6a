package models

type UpdatePreferencesRequest struct {
	TokenID    string `json:"tokenId" binding:"required"`
	DailyVerse *bool  `json:"dailyVerse" binding:"required"`
}
