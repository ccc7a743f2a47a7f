package handlers

import (
	"github.com/vzorr/musta-website/dto"
)

type SubmissionServiceInterface interface {
	SubmitRegistration(category string, req *dto.RegisterRequest, meta dto.RequestMeta) (string, error)
	SubmitContact(req *dto.ContactRequest, meta dto.RequestMeta) (string, error)
	SubmitRecommendation(req *dto.RecommendRequest, meta dto.RequestMeta) (string, error)
}

type GdprServiceInterface interface {
	Submit(req *dto.GdprRequest, meta dto.RequestMeta) (string, error)
}
