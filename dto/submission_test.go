package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:     "Arben Hoxha",
		Email:    "arben@example.com",
		Phone:    "+355691234567",
		Category: "plumber",
		Location: "tirana",
		Language: "sq",
	}
}

func TestRegisterRequestValid(t *testing.T) {
	req := validRegister()
	assert.NoError(t, req.Validate())
}

func TestRegisterRequestAccumulatesAllErrors(t *testing.T) {
	req := RegisterRequest{
		Email: "not-an-email",
		Phone: "123",
	}

	err := req.Validate()
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	assert.GreaterOrEqual(t, len(formatted), 3, "missing name, bad email and bad phone are all reported")

	fields := make(map[string]bool)
	for _, fe := range formatted {
		fields[fe.Field] = true
	}
	assert.True(t, fields["Name"])
	assert.True(t, fields["Email"])
	assert.True(t, fields["Phone"])
}

func TestRegisterRequestEmailRequiresTLD(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"arben@example.com", true},
		{"arben.hoxha+tag@sub.example.co", true},
		{"arben@localhost", false},
		{"arben@", false},
		{"@example.com", false},
		{"arben example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			req := validRegister()
			req.Email = tt.email
			err := req.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterRequestPhoneFormats(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+355691234567", true},
		{"0691234567", true},
		{"+355 69 123 4567", true},
		{"069-123-4567", true},
		{"12345", false},
		{"phone number", false},
		{"+355691234567890123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			req := validRegister()
			req.Phone = tt.phone
			err := req.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestRegisterRequestCategoryEnum(t *testing.T) {
	req := validRegister()
	req.Category = "astronaut"
	assert.Error(t, req.Validate())

	req.Category = ""
	assert.NoError(t, req.Validate(), "category is optional")
}

func TestRegisterRequestNormalize(t *testing.T) {
	req := RegisterRequest{
		Name:  "  Arben Hoxha  ",
		Email: " ARBEN@Example.COM ",
		Phone: " +355691234567 ",
	}
	req.Normalize()

	assert.Equal(t, "Arben Hoxha", req.Name)
	assert.Equal(t, "arben@example.com", req.Email)
	assert.Equal(t, "+355691234567", req.Phone)
	assert.Equal(t, "sq", req.Language, "language defaults to Albanian")

	req.Language = "en"
	req.Normalize()
	assert.Equal(t, "en", req.Language, "an explicit language survives normalization")
}

func TestFlexStringScalarAndArrayForms(t *testing.T) {
	scalar := []byte(`{"name":"Arben Hoxha","email":"arben@example.com","phone":"+355691234567","category":"plumber"}`)
	array := []byte(`{"name":"Arben Hoxha","email":"arben@example.com","phone":"+355691234567","category":["plumber"]}`)

	var fromScalar, fromArray RegisterRequest
	require.NoError(t, sonic.Unmarshal(scalar, &fromScalar))
	require.NoError(t, sonic.Unmarshal(array, &fromArray))

	assert.Equal(t, fromScalar.Category, fromArray.Category, "array-of-one collapses to the scalar form")
	assert.NoError(t, fromScalar.Validate())
	assert.NoError(t, fromArray.Validate())
}

func TestFlexStringMultiElementArrayFailsValidation(t *testing.T) {
	payload := []byte(`{"name":"Arben Hoxha","email":"arben@example.com","phone":"+355691234567","category":["plumber","electrician"]}`)

	var req RegisterRequest
	require.NoError(t, sonic.Unmarshal(payload, &req), "parsing succeeds; the enum check rejects it")
	assert.Error(t, req.Validate())
}

func TestFlexStringRejectsNonStringInput(t *testing.T) {
	var f FlexString
	assert.Error(t, f.UnmarshalJSON([]byte(`42`)))
	assert.Error(t, f.UnmarshalJSON([]byte(`{"a":1}`)))
}

func TestContactRequestMessageLength(t *testing.T) {
	req := ContactRequest{
		Name:    "Arben Hoxha",
		Email:   "arben@example.com",
		Phone:   "+355691234567",
		Message: "too short",
	}
	assert.Error(t, req.Validate())

	req.Message = "This message is long enough to pass validation."
	assert.NoError(t, req.Validate())
}

func TestRecommendRequestUstaFieldsConditional(t *testing.T) {
	base := RecommendRequest{
		Name:  "Arben Hoxha",
		Phone: "+355691234567",
	}

	// Self registration: usta fields stay empty.
	req := base
	assert.NoError(t, req.Validate())

	// Declared referral without the referred professional.
	req = base
	req.IsRecommendation = true
	assert.Error(t, req.Validate())

	req.UstaName = "Besnik Dervishi"
	req.UstaPhone = "+355692223344"
	assert.NoError(t, req.Validate())
}

func TestRecommendRequestEmailOptional(t *testing.T) {
	req := RecommendRequest{
		Name:  "Arben Hoxha",
		Phone: "+355691234567",
	}
	assert.NoError(t, req.Validate())

	req.Email = "not-an-email"
	assert.Error(t, req.Validate())
}

func TestGdprRequestTypeEnum(t *testing.T) {
	for _, requestType := range []string{"access", "export", "delete", "rectify"} {
		req := GdprRequest{
			RequestType: requestType,
			Name:        "Arben Hoxha",
			Email:       "arben@example.com",
		}
		assert.NoError(t, req.Validate(), "request type %s is accepted", requestType)
	}

	req := GdprRequest{
		RequestType: "purge",
		Name:        "Arben Hoxha",
		Email:       "arben@example.com",
	}
	assert.Error(t, req.Validate())
}

func TestGdprRequestNormalizeLowercasesType(t *testing.T) {
	req := GdprRequest{RequestType: " DELETE "}
	req.Normalize()
	assert.Equal(t, "delete", req.RequestType)
}

func TestJoinValidationErrors(t *testing.T) {
	req := RegisterRequest{}
	err := req.Validate()
	require.Error(t, err)

	joined := JoinValidationErrors(err)
	assert.Contains(t, joined, "Name is required")
	assert.Contains(t, joined, "; ")

	assert.Equal(t, "Invalid request", JoinValidationErrors(assert.AnError))
}
