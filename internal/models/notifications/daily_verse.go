package models

import "time"

type DailyVerse struct {
	ID        string    `json:"id" db:"id"`
	Verse     string    `json:"verse" db:"verse"`
	Reference string    `json:"reference" db:"reference"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
