package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sharky/internal/domain/borrower"
)

type RegisterBorrowerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *RegisterBorrowerRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email is invalid")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("firstName cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("lastName cannot be empty")
	}
	return nil
}

type BorrowerResponse struct {
	BorrowerID string    `json:"borrowerId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	FullName   string    `json:"fullName"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewBorrowerResponse(b *borrower.Borrower) BorrowerResponse {
	if b == nil {
		return BorrowerResponse{}
	}

	return BorrowerResponse{
		BorrowerID: strconv.FormatInt(b.ID, 10),
		Email:      b.Email,
		FirstName:  b.FirstName,
		LastName:   b.LastName,
		FullName:   b.FullName(),
		Active:     b.IsBorrowerActive,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
