package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0,lte=150"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Name: "Alice", Email: "alice@example.com", Age: 30}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Email: "alice@example.com", Age: 30}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := testStruct{Name: "Alice", Email: "not-an-email", Age: 30}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(testStruct{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Email")
	assert.Contains(t, err.Error(), "field 'Name'")
}

type minMaxStruct struct {
	Short string `validate:"min=3"`
	Long  string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	err := Validate(minMaxStruct{Short: "ab", Long: "toolongstring"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields["Short"], "at least 3")
	assert.Contains(t, fields["Long"], "at most 5")
}

// --- JSON names and nested paths ---

type jsonAddress struct {
	ZipCode string `json:"zipCode" validate:"required,zipcode"`
	City    string `json:"city" validate:"required,alphaspace"`
}

type jsonStruct struct {
	FirstName string      `json:"firstName" validate:"required"`
	Phone     string      `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
	Address   jsonAddress `json:"address"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	err := Validate(jsonStruct{Address: jsonAddress{ZipCode: "12345", City: "Springfield"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "firstName")
}

func TestValidate_NestedPath(t *testing.T) {
	err := Validate(jsonStruct{FirstName: "Alice", Address: jsonAddress{ZipCode: "abc", City: "Springfield"}})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields()["address.zipCode"], "ZIP code")
}

// --- Custom tags ---

func TestValidate_Phone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+15551234567", true},
		{"5551234567", true},
		{"123", false},
		{"555-123-4567", false},
		{"+1234567890123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			s := jsonStruct{FirstName: "Alice", Phone: tt.phone, Address: jsonAddress{ZipCode: "12345", City: "Springfield"}}
			err := Validate(s)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_ZipCode(t *testing.T) {
	for _, zip := range []string{"12345", "12345-6789"} {
		s := jsonStruct{FirstName: "Alice", Address: jsonAddress{ZipCode: zip, City: "Springfield"}}
		assert.NoError(t, Validate(s), zip)
	}
	for _, zip := range []string{"1234", "123456", "12345-67"} {
		s := jsonStruct{FirstName: "Alice", Address: jsonAddress{ZipCode: zip, City: "Springfield"}}
		assert.Error(t, Validate(s), zip)
	}
}

func TestValidate_AlphaSpace(t *testing.T) {
	ok := jsonStruct{FirstName: "Alice", Address: jsonAddress{ZipCode: "12345", City: "New York"}}
	assert.NoError(t, Validate(ok))

	bad := jsonStruct{FirstName: "Alice", Address: jsonAddress{ZipCode: "12345", City: "R2D2"}}
	err := Validate(bad)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must contain only letters and spaces", valErr.Fields()["address.city"])
}

// --- DecodeAndValidate ---

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"Name":"Alice","Email":"alice@example.com","Age":25}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.NoError(t, err)
	assert.Equal(t, "Alice", s.Name)
	assert.Equal(t, 25, s.Age)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"Name":"","Email":"bad","Age":25}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
