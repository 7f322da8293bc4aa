package model

import "time"

// ProductChangeRequest is a portfolio-wide feature or issue request. Only its
// open count matters to health scoring.
type ProductChangeRequest struct {
	ID          string
	Title       string
	Description string
	Priority    int
	RequestedBy string
	Status      PCRStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}
