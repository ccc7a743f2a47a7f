package services

import (
	"github.com/vzorr/musta-website/model"
)

// SubmissionStore is the persistence capability the intake pipeline
// depends on. Each insert is independently atomic; no cross-record
// transactions are needed. SqliteService and PostgresService are the
// two interchangeable implementations.
type SubmissionStore interface {
	InsertRegistration(rec *model.Registration) error
	FindRegistrationsByEmail(category, email string) ([]model.Registration, error)
	InsertContact(rec *model.ContactMessage) error
	InsertRecommendation(rec *model.Recommendation) error
	InsertGdprRequest(rec *model.GdprRequest) error
	UpdateGdprRequest(rec *model.GdprRequest) error
	CollectSubjectRecords(email string) (*model.SubjectRecords, error)
	DeleteSubjectRecords(email string) (int64, error)
}
