package services

import (
	"context"
	"errors"
	"strings"

	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
)

var ErrPartyName = errors.New("party name is required")

type PartyService struct {
	partyRepo *repositories.PartyRepository
	ledger    *LedgerService
}

func NewPartyService(partyRepo *repositories.PartyRepository, ledger *LedgerService) *PartyService {
	return &PartyService{partyRepo: partyRepo, ledger: ledger}
}

func (s *PartyService) Create(ctx context.Context, req models.CreatePartyRequest) (*models.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPartyName
	}

	party := models.Party{
		Name:    name,
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		GSTIN:   strings.ToUpper(strings.TrimSpace(req.GSTIN)),
		Address: strings.TrimSpace(req.Address),
	}
	if err := s.partyRepo.Create(ctx, &party); err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *PartyService) Update(ctx context.Context, id int, req models.CreatePartyRequest) (*models.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPartyName
	}

	party, err := s.partyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	party.Name = name
	party.Phone = strings.TrimSpace(req.Phone)
	party.Email = strings.TrimSpace(req.Email)
	party.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	party.Address = strings.TrimSpace(req.Address)

	if err := s.partyRepo.Update(ctx, party); err != nil {
		return nil, err
	}
	s.ledger.InvalidateSummary(ctx, id)
	return party, nil
}

func (s *PartyService) Get(ctx context.Context, id int) (*models.Party, error) {
	return s.partyRepo.GetByID(ctx, id)
}

func (s *PartyService) List(ctx context.Context, search string) ([]models.Party, error) {
	return s.partyRepo.List(ctx, search)
}

func (s *PartyService) Delete(ctx context.Context, id int) error {
	if err := s.partyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.InvalidateSummary(ctx, id)
	return nil
}
