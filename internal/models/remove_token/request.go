package models

type RemoveTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
