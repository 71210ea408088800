package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sharky/internal/domain/funding"
)

type CreateBankRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

func (r *CreateBankRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

type BankResponse struct {
	BankID       string `json:"bankId"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

func NewBankResponse(b *funding.Bank) BankResponse {
	return BankResponse{
		BankID:       strconv.FormatInt(b.ID, 10),
		Name:         b.Name,
		Abbreviation: b.Abbreviation,
	}
}

type CreateCapitalSourceRequest struct {
	Kind       string `json:"kind"`
	BankID     int64  `json:"bankId"`
	Name       string `json:"name"`
	ProviderID *int64 `json:"providerId,omitempty"`
}

func (r *CreateCapitalSourceRequest) Validate() error {
	if !funding.SourceKind(r.Kind).Valid() {
		return fmt.Errorf("kind must be one of %q, %q, %q",
			funding.KindSavings, funding.KindCreditCard, funding.KindCashLoan)
	}
	if r.BankID <= 0 {
		return fmt.Errorf("bankId must be positive")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.ProviderID != nil && *r.ProviderID <= 0 {
		return fmt.Errorf("providerId must be positive when present")
	}
	return nil
}

type CapitalSourceResponse struct {
	CapitalSourceID string    `json:"capitalSourceId"`
	Kind            string    `json:"kind"`
	BankID          string    `json:"bankId"`
	Name            string    `json:"name"`
	ProviderID      *string   `json:"providerId,omitempty"`
	SelfFunded      bool      `json:"selfFunded"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewCapitalSourceResponse(cs *funding.CapitalSource) CapitalSourceResponse {
	var providerIDStr *string
	if cs.ProviderID != nil {
		s := strconv.FormatInt(*cs.ProviderID, 10)
		providerIDStr = &s
	}

	return CapitalSourceResponse{
		CapitalSourceID: strconv.FormatInt(cs.ID, 10),
		Kind:            string(cs.Kind),
		BankID:          strconv.FormatInt(cs.BankID, 10),
		Name:            cs.Name,
		ProviderID:      providerIDStr,
		SelfFunded:      cs.IsSelfFunded(),
		CreatedAt:       cs.CreatedAt,
		UpdatedAt:       cs.UpdatedAt,
	}
}
