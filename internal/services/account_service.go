package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"homeclean-backend/internal/models"
)

// AccountService owns the profile screens: profile, terms, work preferences
// and payout bank details.
type AccountService struct {
	store  AccountStore
	logger *zap.Logger
	now    func() time.Time
}

func NewAccountService(store AccountStore, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{store: store, logger: logger, now: time.Now}
}

func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

func (s *AccountService) SaveProfile(ctx context.Context, userID uuid.UUID, req *models.ProfileRequest) (*models.Profile, error) {
	if err := ValidateProfile(req); err != nil {
		return nil, err
	}
	profile := &models.Profile{
		UserID:    userID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = decimal.NewNullDecimal(*req.HourlyRate)
	}

	saved, err := s.store.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return saved, nil
}

func (s *AccountService) AcceptTerms(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.store.AcceptTerms(ctx, userID, s.now().UTC())
}

func (s *AccountService) GetWorkPreference(ctx context.Context, userID uuid.UUID) (*models.WorkPreference, error) {
	return s.store.GetWorkPreference(ctx, userID)
}

func (s *AccountService) SaveWorkPreference(ctx context.Context, userID uuid.UUID, req *models.WorkPreferenceRequest) (*models.WorkPreference, error) {
	if err := ValidateWorkPreference(req); err != nil {
		return nil, err
	}
	availability := req.Availability
	if availability == nil {
		availability = models.Availability{}
	}

	saved, err := s.store.UpsertWorkPreference(ctx, &models.WorkPreference{
		UserID:            userID,
		WorkingDistanceKM: req.WorkingDistanceKM,
		Availability:      availability,
		Experience:        strings.TrimSpace(req.Experience),
		HourlyRate:        req.HourlyRate,
		MinimumHours:      req.MinimumHours,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save work preferences: %w", err)
	}
	return saved, nil
}

// GetBankAccount returns the payout account with the number masked.
func (s *AccountService) GetBankAccount(ctx context.Context, userID uuid.UUID) (*models.BankAccountResponse, error) {
	account, err := s.store.GetBankAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return bankAccountResponse(account), nil
}

// SaveBankAccount validates before touching the store.
func (s *AccountService) SaveBankAccount(ctx context.Context, userID uuid.UUID, req *models.BankAccountRequest) (*models.BankAccountResponse, error) {
	if err := ValidateBankAccount(req); err != nil {
		return nil, err
	}
	account := &models.BankAccount{
		UserID:        userID,
		AccountName:   strings.TrimSpace(req.AccountName),
		BSB:           NormalizeBSB(req.BSB),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
	}
	if err := s.store.UpsertBankAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}
	s.logger.Info("bank account updated", zap.String("user_id", userID.String()))
	return bankAccountResponse(account), nil
}

func bankAccountResponse(b *models.BankAccount) *models.BankAccountResponse {
	bsb := b.BSB
	if len(bsb) == 6 {
		bsb = bsb[:3] + "-" + bsb[3:]
	}
	return &models.BankAccountResponse{
		AccountName:   b.AccountName,
		BSB:           bsb,
		AccountNumber: b.MaskedAccountNumber(),
	}
}
