package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// CreatePCRInput is the payload for a new product change request.
type CreatePCRInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Priority    int    `json:"priority" validate:"gte=0,lte=5"`
	RequestedBy string `json:"requested_by" validate:"max=200"`
}

// PCRService manages product change requests. PCR changes do not re-score
// accounts; the open count is read on each account's next scoring.
type PCRService struct {
	pcrStore driven.PCRStore
	clock    Clock
	newID    IDGenerator
}

// NewPCRService creates a new PCRService.
func NewPCRService(pcrStore driven.PCRStore, clock Clock, newID IDGenerator) *PCRService {
	return &PCRService{pcrStore: pcrStore, clock: clock, newID: newID}
}

// Create stores a new request in the requested state.
func (s *PCRService) Create(ctx context.Context, in CreatePCRInput) (*model.ProductChangeRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	pcr := model.ProductChangeRequest{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		RequestedBy: in.RequestedBy,
		Status:      model.PCRStatusRequested,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.pcrStore.Create(ctx, pcr); err != nil {
		return nil, fmt.Errorf("create product change request: %w", err)
	}
	return &pcr, nil
}

// List returns every request.
func (s *PCRService) List(ctx context.Context) ([]model.ProductChangeRequest, error) {
	return s.pcrStore.ListAll(ctx)
}

// UpdateStatus moves a request to status and returns the stored result.
func (s *PCRService) UpdateStatus(ctx context.Context, id string, status model.PCRStatus) (*model.ProductChangeRequest, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "must be one of: requested in_progress completed"}
	}

	if err := s.pcrStore.UpdateStatus(ctx, id, status, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("update product change request %q: %w", id, err)
	}

	pcr, err := s.pcrStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product change request %q: %w", id, err)
	}
	if pcr == nil {
		return nil, driven.ErrPCRNotFound
	}
	return pcr, nil
}
