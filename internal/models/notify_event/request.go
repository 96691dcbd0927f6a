package models

// NotifyEventRequest is what the application backend posts when a domain
// event (new comment, new prayer commitment, moderation action) should
// reach a set of users.
type NotifyEventRequest struct {
	UserIDs []string `json:"userIds" binding:"required,min=1"`
	Type    string   `json:"type" binding:"required"`
	Title   string   `json:"title" binding:"required"`
	Body    string   `json:"body" binding:"required"`
	Icon    string   `json:"icon"`
	URL     string   `json:"url"`
	Tag     string   `json:"tag"`
}
