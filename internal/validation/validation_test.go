package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhonePattern(t *testing.T) {
	valid := []string{
		"0912345678",
		"0312345678",
		"0512345678",
		"0712345678",
		"0812345678",
		"+84912345678",
		"+84345678901",
	}
	for _, s := range valid {
		assert.True(t, Phone(s), s)
	}

	invalid := []string{
		"",
		"123",
		"0112345678",
		"0212345678",
		"0412345678",
		"0612345678",
		"091234567",
		"09123456789",
		"84912345678",
		"+85912345678",
		"09123456 78",
		"phone",
	}
	for _, s := range invalid {
		assert.False(t, Phone(s), s)
	}
}

func TestEmailPattern(t *testing.T) {
	assert.True(t, Email("a@x.com"))
	assert.True(t, Email("le.van.a+tag@example.co"))

	assert.False(t, Email("missing-at.example.com"))
	assert.False(t, Email("a@nodot"))
	assert.False(t, Email("a b@x.com"))
	assert.False(t, Email("a@x .com"))
	assert.False(t, Email(""))
}

func TestValidateConsultationRecord(t *testing.T) {
	record := map[string]string{
		"name":    "Le Van A",
		"phone":   "0912345678",
		"email":   "a@x.com",
		"content": "Need consulting about course X",
	}
	result := Validate(record, ConsultationSchema())
	assert.True(t, result.Valid())
}

func TestValidateCollectsPerFieldCodes(t *testing.T) {
	record := map[string]string{
		"name":    "A",
		"phone":   "123",
		"email":   "not-an-email",
		"content": "short",
	}
	result := Validate(record, ConsultationSchema())
	require.False(t, result.Valid())
	assert.Equal(t, CodeNameTooShort, result["name"])
	assert.Equal(t, CodePhoneInvalid, result["phone"])
	assert.Equal(t, CodeEmailInvalid, result["email"])
	assert.Equal(t, CodeContentShort, result["content"])
	assert.NotContains(t, result, "parent_phone")
}

func TestValidateRequiredFields(t *testing.T) {
	result := Validate(map[string]string{}, ConsultationSchema())
	assert.Equal(t, CodeRequired, result["name"])
	assert.Equal(t, CodeRequired, result["phone"])
	assert.Equal(t, CodeRequired, result["email"])
	assert.Equal(t, CodeRequired, result["content"])
}

func TestValidateOptionalPhoneStillChecked(t *testing.T) {
	record := map[string]string{
		"name":         "Le Van A",
		"phone":        "0912345678",
		"parent_phone": "999",
		"email":        "a@x.com",
		"content":      "Need consulting about course X",
	}
	result := Validate(record, ConsultationSchema())
	assert.Equal(t, CodePhoneInvalid, result["parent_phone"])
}

func TestValidateNameBounds(t *testing.T) {
	long := make([]rune, 51)
	for i := range long {
		long[i] = 'a'
	}
	result := Validate(map[string]string{"name": string(long)}, Schema{{Field: "name", Kind: KindName}})
	assert.Equal(t, CodeNameTooLong, result["name"])

	result = Validate(map[string]string{"name": "  ab  "}, Schema{{Field: "name", Kind: KindName}})
	assert.True(t, result.Valid(), "trimmed length counts")
}

func TestResultClearRemovesOnlyThatField(t *testing.T) {
	result := Result{"phone": CodePhoneInvalid, "email": CodeEmailInvalid}
	result.Clear("phone")
	assert.NotContains(t, result, "phone")
	assert.Equal(t, CodeEmailInvalid, result["email"])
}

func TestRegisterVNPhone(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterVNPhone(v))

	type payload struct {
		Phone string `validate:"vnphone"`
	}
	assert.NoError(t, v.Struct(payload{Phone: "0912345678"}))
	assert.Error(t, v.Struct(payload{Phone: "123"}))
}
