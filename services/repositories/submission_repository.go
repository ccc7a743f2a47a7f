package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vzorr/musta-website/model"
)

// SubmissionRepository provides the record operations the intake
// pipeline needs, shared by the SQLite and Postgres backends.
type SubmissionRepository struct {
	BaseRepository
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return SubmissionRepository{BaseRepository: NewBaseRepository(db)}
}

// Migrate creates or updates the submission and lookup tables.
func (r *SubmissionRepository) Migrate() error {
	return r.DB().AutoMigrate(
		&model.Registration{},
		&model.ContactMessage{},
		&model.Recommendation{},
		&model.GdprRequest{},
		&model.ServiceCategory{},
		&model.Location{},
	)
}

func (r *SubmissionRepository) InsertRegistration(rec *model.Registration) error {
	return r.HandleError(r.DB().Create(rec).Error)
}

func (r *SubmissionRepository) FindRegistrationsByEmail(category, email string) ([]model.Registration, error) {
	var records []model.Registration
	err := r.DB().Where("category = ? AND email = ?", category, email).Find(&records).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return records, r.HandleError(err)
}

func (r *SubmissionRepository) InsertContact(rec *model.ContactMessage) error {
	return r.HandleError(r.DB().Create(rec).Error)
}

func (r *SubmissionRepository) InsertRecommendation(rec *model.Recommendation) error {
	return r.HandleError(r.DB().Create(rec).Error)
}

func (r *SubmissionRepository) InsertGdprRequest(rec *model.GdprRequest) error {
	return r.HandleError(r.DB().Create(rec).Error)
}

func (r *SubmissionRepository) UpdateGdprRequest(rec *model.GdprRequest) error {
	return r.HandleError(r.DB().Save(rec).Error)
}

func (r *SubmissionRepository) CollectSubjectRecords(email string) (*model.SubjectRecords, error) {
	records := &model.SubjectRecords{}

	if err := r.DB().Where("email = ?", email).Find(&records.Registrations).Error; err != nil {
		return nil, r.HandleError(err)
	}
	if err := r.DB().Where("email = ?", email).Find(&records.Contacts).Error; err != nil {
		return nil, r.HandleError(err)
	}
	if err := r.DB().Where("email = ?", email).Find(&records.Recommendations).Error; err != nil {
		return nil, r.HandleError(err)
	}
	if err := r.DB().Where("email = ?", email).Find(&records.GdprRequests).Error; err != nil {
		return nil, r.HandleError(err)
	}

	return records, nil
}

// DeleteSubjectRecords removes the subject's submissions. GDPR request
// records themselves are kept as the legal trail of the deletion.
func (r *SubmissionRepository) DeleteSubjectRecords(email string) (int64, error) {
	var total int64

	res := r.DB().Where("email = ?", email).Delete(&model.Registration{})
	if res.Error != nil {
		return total, r.HandleError(res.Error)
	}
	total += res.RowsAffected

	res = r.DB().Where("email = ?", email).Delete(&model.ContactMessage{})
	if res.Error != nil {
		return total, r.HandleError(res.Error)
	}
	total += res.RowsAffected

	res = r.DB().Where("email = ?", email).Delete(&model.Recommendation{})
	if res.Error != nil {
		return total, r.HandleError(res.Error)
	}
	total += res.RowsAffected

	return total, nil
}
