package dto

import (
	"encoding/json"
	"strings"

	"github.com/vzorr/musta-website/shared"
)

// FlexString accepts both the scalar and the single-element array form
// of a select field. Multi-select UI components submit arrays even when
// only one selection is allowed; the array-of-one collapses to its
// element before schema checking. Arrays of more than one element join
// into a value no enum check will accept.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}

	*f = FlexString(strings.Join(arr, ","))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// RegisterRequest serves both the registration and waitlist forms.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	Email    string     `json:"email" validate:"required,email_tld,max=150"`
	Phone    string     `json:"phone" validate:"required,min=8,max=20,phone"`
	Category FlexString `json:"category" validate:"omitempty,oneof=plumber electrician carpenter painter mason tiler ac_technician cleaner other"`
	Location FlexString `json:"location" validate:"omitempty,oneof=tirana durres vlore shkoder elbasan fier korce other"`
	Language string     `json:"language" validate:"omitempty,oneof=sq en"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Language == "" {
		r.Language = shared.LanguageSq
	}
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ContactRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email_tld,max=150"`
	Phone    string `json:"phone" validate:"required,min=8,max=20,phone"`
	Subject  string `json:"subject" validate:"omitempty,max=200"`
	Message  string `json:"message" validate:"required,min=10,max=4000"`
	Language string `json:"language" validate:"omitempty,oneof=sq en"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	if r.Language == "" {
		r.Language = shared.LanguageSq
	}
}

func (r ContactRequest) Validate() error {
	return GetValidator().Struct(r)
}

// RecommendRequest covers both self-registration of a professional and
// recommending someone else. The recommended professional's name and
// phone are only required in the latter case.
type RecommendRequest struct {
	Name             string     `json:"name" validate:"required,min=2,max=100"`
	Email            string     `json:"email" validate:"omitempty,email_tld,max=150"`
	Phone            string     `json:"phone" validate:"required,min=8,max=20,phone"`
	IsRecommendation bool       `json:"isRecommendation"`
	UstaName         string     `json:"ustaName" validate:"required_if=IsRecommendation true,omitempty,min=2,max=100"`
	UstaPhone        string     `json:"ustaPhone" validate:"required_if=IsRecommendation true,omitempty,min=8,max=20,phone"`
	Category         FlexString `json:"category" validate:"omitempty,oneof=plumber electrician carpenter painter mason tiler ac_technician cleaner other"`
	Location         FlexString `json:"location" validate:"omitempty,oneof=tirana durres vlore shkoder elbasan fier korce other"`
	Language         string     `json:"language" validate:"omitempty,oneof=sq en"`
}

func (r *RecommendRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.UstaName = strings.TrimSpace(r.UstaName)
	r.UstaPhone = strings.TrimSpace(r.UstaPhone)
	if r.Language == "" {
		r.Language = shared.LanguageSq
	}
}

func (r RecommendRequest) Validate() error {
	return GetValidator().Struct(r)
}

// GdprRequest is a data subject request. Details being required for
// rectify requests is enforced by the endpoint, not here; see the GDPR
// handler.
type GdprRequest struct {
	RequestType string `json:"requestType" validate:"required,oneof=access export delete rectify"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email_tld,max=150"`
	Phone       string `json:"phone" validate:"omitempty,min=8,max=20,phone"`
	Details     string `json:"details" validate:"omitempty,max=4000"`
	Language    string `json:"language" validate:"omitempty,oneof=sq en"`
}

func (r *GdprRequest) Normalize() {
	r.RequestType = strings.ToLower(strings.TrimSpace(r.RequestType))
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Details = strings.TrimSpace(r.Details)
	if r.Language == "" {
		r.Language = shared.LanguageSq
	}
}

func (r GdprRequest) Validate() error {
	return GetValidator().Struct(r)
}

// RequestMeta carries request-scoped metadata the pipeline attaches to
// every persisted record.
type RequestMeta struct {
	ClientKey string
	UserAgent string
}
