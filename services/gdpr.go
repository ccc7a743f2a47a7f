package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/model"
	"github.com/vzorr/musta-website/shared"
)

// ExportUploader stores GDPR export artifacts and hands back a
// download URL. MinIOService is the production implementation.
type ExportUploader interface {
	Enabled() bool
	UploadExport(objectName string, reader io.Reader, objectSize int64, expiry time.Duration) (string, error)
	DeleteExport(objectName string) error
}

// GdprService runs the intake pipeline for data subject requests and
// then executes them: access collects the subject's records, export
// uploads them as a JSON artifact, delete removes them, rectify files
// the correction request for manual handling. The request record is
// always persisted before any execution so the legal trail survives
// partial failures.
type GdprService struct {
	context.DefaultService

	limiter  RateLimiter
	store    SubmissionStore
	abuse    AbuseScreener
	notifier NotificationDispatcher
	uploader ExportUploader
}

const GDPR_SVC = "gdpr_svc"

const exportURLExpiry = 7 * 24 * time.Hour

func (svc GdprService) Id() string {
	return GDPR_SVC
}

func (svc *GdprService) Start() error {
	if svc.limiter == nil {
		svc.limiter = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	}
	if svc.store == nil {
		if os.Getenv("DB_DRIVER") == "postgres" {
			svc.store = svc.Service(POSTGRES_SVC).(*PostgresService)
		} else {
			svc.store = svc.Service(SQLITE_SVC).(*SqliteService)
		}
	}
	if svc.abuse == nil {
		svc.abuse = svc.Service(ABUSE_SVC).(*AbuseService)
	}
	if svc.notifier == nil {
		svc.notifier = svc.Service(EMAIL_SVC).(*EmailService)
	}
	if svc.uploader == nil {
		svc.uploader = svc.Service(MINIO_SVC).(*MinIOService)
	}
	return nil
}

// NewGdprService wires the service from explicit collaborators,
// bypassing the service container. Used by tests.
func NewGdprService(limiter RateLimiter, store SubmissionStore, abuse AbuseScreener, notifier NotificationDispatcher, uploader ExportUploader) *GdprService {
	return &GdprService{
		limiter:  limiter,
		store:    store,
		abuse:    abuse,
		notifier: notifier,
		uploader: uploader,
	}
}

// Submit runs rate limit, validation and abuse screening, persists the
// request and executes it. The details-required-for-rectify rule lives
// here rather than in the request schema; see DESIGN.md for why that
// inconsistency is kept.
func (svc *GdprService) Submit(req *dto.GdprRequest, meta dto.RequestMeta) (string, error) {
	req.Normalize()

	info, err := svc.limiter.CheckLimit(shared.CategoryGdpr, meta.ClientKey)
	if err != nil {
		log.WithError(err).Error("Rate limit check failed, admitting GDPR request")
	} else if !info.Allowed {
		recordSubmissionOutcome(shared.CategoryGdpr, "rejected_rate_limit")
		return "", shared.NewRateLimitError(
			shared.RejectionMessage(shared.ErrCodeRateLimited, req.Language),
			info.RetryAfter,
		)
	}

	if err := req.Validate(); err != nil {
		recordSubmissionOutcome(shared.CategoryGdpr, "rejected_validation")
		return "", shared.NewValidationError(dto.JoinValidationErrors(err))
	}

	if req.RequestType == shared.GdprRequestRectify && req.Details == "" {
		recordSubmissionOutcome(shared.CategoryGdpr, "rejected_validation")
		return "", shared.NewMissingDetailsError(shared.RejectionMessage(shared.ErrCodeMissingDetails, req.Language))
	}

	if spam, reason := svc.abuse.ScreenGdpr(req); spam {
		log.WithField("reason", string(reason)).Warn("GDPR request flagged as spam-like")
		recordSubmissionOutcome(shared.CategoryGdpr, "rejected_abuse")
		return "", shared.NewSpamError(shared.RejectionMessage(shared.ErrCodeSpamDetected, req.Language))
	}

	record := &model.GdprRequest{
		ID:          uuid.NewString(),
		RequestType: req.RequestType,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Details:     req.Details,
		Language:    req.Language,
		ClientIP:    meta.ClientKey,
		UserAgent:   meta.UserAgent,
		Status:      shared.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := svc.store.InsertGdprRequest(record); err != nil {
		recordSubmissionOutcome(shared.CategoryGdpr, "failed_persistence")
		return "", shared.NewDatabaseError(err, shared.RejectionMessage(shared.ErrCodeDatabase, req.Language))
	}
	recordSubmissionOutcome(shared.CategoryGdpr, "persisted")

	// Execution failures leave the record pending for manual follow-up;
	// the submitter already has their acknowledgement.
	if err := svc.execute(record); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"request_type": record.RequestType,
			"request_id":   record.ID,
		}).Error("GDPR request execution failed")
	}

	svc.dispatchNotifications(NotificationData{
		Category:    shared.CategoryGdpr,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Details,
		RequestType: req.RequestType,
		ExportURL:   record.ExportURL,
		Language:    req.Language,
	})

	return shared.SuccessMessage(shared.CategoryGdpr, req.Language), nil
}

func (svc *GdprService) execute(record *model.GdprRequest) error {
	switch record.RequestType {
	case shared.GdprRequestAccess:
		records, err := svc.store.CollectSubjectRecords(record.Email)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"request_id": record.ID,
			"empty":      records.Empty(),
		}).Info("Subject records collected for access request")
		return nil

	case shared.GdprRequestExport:
		return svc.executeExport(record)

	case shared.GdprRequestDelete:
		records, err := svc.store.CollectSubjectRecords(record.Email)
		if err != nil {
			return err
		}
		svc.removeExportArtifacts(records.GdprRequests)

		deleted, err := svc.store.DeleteSubjectRecords(record.Email)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"request_id": record.ID,
			"deleted":    deleted,
		}).Info("Subject records deleted")
		return nil

	case shared.GdprRequestRectify:
		// Nothing to execute; the stored details drive manual handling.
		return nil
	}

	return fmt.Errorf("unknown request type %q", record.RequestType)
}

func (svc *GdprService) executeExport(record *model.GdprRequest) error {
	records, err := svc.store.CollectSubjectRecords(record.Email)
	if err != nil {
		return err
	}

	payload, err := sonic.Marshal(records)
	if err != nil {
		return err
	}

	if !svc.uploader.Enabled() {
		log.WithField("request_id", record.ID).Warn("Object storage disabled, export left for manual handling")
		return nil
	}

	objectName := fmt.Sprintf("exports/%s.json", record.ID)
	url, err := svc.uploader.UploadExport(objectName, bytes.NewReader(payload), int64(len(payload)), exportURLExpiry)
	if err != nil {
		return fmt.Errorf("%s: %w", shared.ErrCodeStorage, err)
	}

	record.ExportURL = url
	return svc.store.UpdateGdprRequest(record)
}

// removeExportArtifacts revokes previously issued export downloads
// when the subject asks for deletion. Failures are logged and skipped;
// the presigned URLs expire on their own within exportURLExpiry.
func (svc *GdprService) removeExportArtifacts(requests []model.GdprRequest) {
	if !svc.uploader.Enabled() {
		return
	}

	for i := range requests {
		prior := &requests[i]
		if prior.ExportURL == "" {
			continue
		}

		objectName := fmt.Sprintf("exports/%s.json", prior.ID)
		if err := svc.uploader.DeleteExport(objectName); err != nil {
			log.WithError(err).WithField("request_id", prior.ID).Error("Failed to delete export artifact")
			continue
		}

		prior.ExportURL = ""
		if err := svc.store.UpdateGdprRequest(prior); err != nil {
			log.WithError(err).WithField("request_id", prior.ID).Error("Failed to clear export URL")
		}
	}
}

func (svc *GdprService) dispatchNotifications(data NotificationData) {
	go func() {
		if err := svc.notifier.SendConfirmation(data); err != nil {
			log.WithError(err).Error("Failed to send GDPR confirmation email")
			recordNotificationFailure(shared.CategoryGdpr, "confirmation")
		}
	}()

	go func() {
		if err := svc.notifier.SendAdminNotification(data); err != nil {
			log.WithError(err).Error("Failed to send GDPR admin notification")
			recordNotificationFailure(shared.CategoryGdpr, "admin")
		}
	}()
}
