package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sharky/internal/domain/borrower"
)

func TestRegisterBorrowerRequestValidate(t *testing.T) {
	valid := RegisterBorrowerRequest{Email: "jane.doe@example.com", FirstName: "Jane", LastName: "Doe"}
	assert.NoError(t, valid.Validate())

	noAt := valid
	noAt.Email = "jane.doe.example.com"
	assert.Error(t, noAt.Validate())

	blankFirst := valid
	blankFirst.FirstName = "   "
	assert.Error(t, blankFirst.Validate())

	blankLast := valid
	blankLast.LastName = ""
	assert.Error(t, blankLast.Validate())
}

func TestNewBorrowerResponse(t *testing.T) {
	b := &borrower.Borrower{
		ID:               42,
		Email:            "jane.doe@example.com",
		FirstName:        "Jane",
		LastName:         "Doe",
		IsBorrowerActive: true,
	}

	resp := NewBorrowerResponse(b)
	assert.Equal(t, "42", resp.BorrowerID)
	assert.Equal(t, "Jane Doe", resp.FullName)
	assert.True(t, resp.Active)

	assert.Equal(t, BorrowerResponse{}, NewBorrowerResponse(nil))
}
