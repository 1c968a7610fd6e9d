package validate

import (
	"errors"
	"testing"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	err := Struct(domain.CreateCircularRequest{
		Category:    "exam",
		Title:       "Midterm",
		Description: "Schedule attached",
		Images:      []string{"https://cdn.example.com/a.png"},
	})
	assert.NoError(t, err)
}

func TestStruct_FieldLevelMessages(t *testing.T) {
	err := Struct(domain.CreateCircularRequest{Category: "SPORTS", Images: []string{"not a url"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is not a known category", ve.Fields["category"])
	assert.Equal(t, "is required", ve.Fields["title"])
	assert.Equal(t, "is required", ve.Fields["description"])
	assert.Contains(t, ve.Fields, "images[0]")
}

func TestStruct_AlertKind(t *testing.T) {
	assert.NoError(t, Struct(domain.RaiseAlertRequest{Kind: "fire", Message: "Evacuate block B"}))

	err := Struct(domain.RaiseAlertRequest{Kind: "ALIENS", Message: "x"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "kind")
}

func TestStruct_PhoneFormat(t *testing.T) {
	err := Struct(domain.RequestOTPRequest{Phone: "call-me"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must be an E.164 phone number", ve.Fields["phone"])
}
