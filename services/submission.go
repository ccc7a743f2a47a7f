package services

import (
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/model"
	"github.com/vzorr/musta-website/shared"
)

// RateLimiter is the quota gate in front of every intake. The default
// implementation is RateLimitService; tests substitute their own.
type RateLimiter interface {
	CheckLimit(category, clientKey string) (*dto.RateLimitInfo, error)
	Reset(category, clientKey string) error
	Remaining(category, clientKey string) (int, error)
}

// NotificationDispatcher sends confirmation and admin emails. Dispatch
// is fire-and-forget: failures are logged, never surfaced to the
// submitter.
type NotificationDispatcher interface {
	SendConfirmation(data NotificationData) error
	SendAdminNotification(data NotificationData) error
}

// AbuseScreener is the heuristic classifier run after structural
// validation.
type AbuseScreener interface {
	ScreenRegistration(req *dto.RegisterRequest) (bool, AbuseReason)
	ScreenContact(req *dto.ContactRequest) (bool, AbuseReason)
	ScreenRecommendation(req *dto.RecommendRequest) (bool, AbuseReason)
	ScreenGdpr(req *dto.GdprRequest) (bool, AbuseReason)
}

// LookupResolver maps form codes to storage-internal ids.
type LookupResolver interface {
	ResolveCategoryID(code string) *int
	ResolveLocationID(code string) *int
}

// SubmissionService runs the intake pipeline for registration,
// waitlist, contact and recommendation submissions. Each request moves
// through rate limit, validation, abuse screening and persistence in
// strictly ascending cost order; only persisted submissions trigger
// notifications.
type SubmissionService struct {
	context.DefaultService

	limiter  RateLimiter
	store    SubmissionStore
	abuse    AbuseScreener
	notifier NotificationDispatcher
	lookup   LookupResolver
}

const SUBMISSION_SVC = "submission_svc"

func (svc SubmissionService) Id() string {
	return SUBMISSION_SVC
}

func (svc *SubmissionService) Start() error {
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
	if svc.lookup == nil {
		svc.lookup = svc.Service(LOOKUP_SVC).(*LookupService)
	}
	return nil
}

// NewSubmissionService wires a pipeline from explicit collaborators,
// bypassing the service container. Used by tests.
func NewSubmissionService(limiter RateLimiter, store SubmissionStore, abuse AbuseScreener, notifier NotificationDispatcher, lookup LookupResolver) *SubmissionService {
	return &SubmissionService{
		limiter:  limiter,
		store:    store,
		abuse:    abuse,
		notifier: notifier,
		lookup:   lookup,
	}
}

// admit runs the rate limit gate. A limiter backend error fails open:
// blocking real users over an infrastructure hiccup costs more than
// letting a few extra requests through.
func (svc *SubmissionService) admit(category, clientKey, language string) error {
	info, err := svc.limiter.CheckLimit(category, clientKey)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"category":   category,
			"client_key": clientKey,
		}).Error("Rate limit check failed, admitting request")
		return nil
	}

	if !info.Allowed {
		recordSubmissionOutcome(category, "rejected_rate_limit")
		return shared.NewRateLimitError(
			shared.RejectionMessage(shared.ErrCodeRateLimited, language),
			info.RetryAfter,
		)
	}

	return nil
}

func (svc *SubmissionService) rejectSpam(category string, reason AbuseReason, language string) error {
	// The reason tag stays in logs and metrics; the client gets the
	// same generic message for every heuristic.
	log.WithFields(log.Fields{
		"category": category,
		"reason":   string(reason),
	}).Warn("Submission flagged as spam-like")
	recordSubmissionOutcome(category, "rejected_abuse")
	return shared.NewSpamError(shared.RejectionMessage(shared.ErrCodeSpamDetected, language))
}

// SubmitRegistration handles both the registration and waitlist
// categories; the two share a schema and differ only in policy values
// and which form the record is attributed to.
func (svc *SubmissionService) SubmitRegistration(category string, req *dto.RegisterRequest, meta dto.RequestMeta) (string, error) {
	req.Normalize()

	if err := svc.admit(category, meta.ClientKey, req.Language); err != nil {
		return "", err
	}

	if err := req.Validate(); err != nil {
		recordSubmissionOutcome(category, "rejected_validation")
		return "", shared.NewValidationError(dto.JoinValidationErrors(err))
	}

	if spam, reason := svc.abuse.ScreenRegistration(req); spam {
		return "", svc.rejectSpam(category, reason, req.Language)
	}

	// Resubmitting the same email is a duplicate, not a new signup.
	existing, err := svc.store.FindRegistrationsByEmail(category, req.Email)
	if err != nil {
		recordSubmissionOutcome(category, "failed_persistence")
		return "", shared.NewDatabaseError(err, shared.RejectionMessage(shared.ErrCodeDatabase, req.Language))
	}
	if len(existing) > 0 {
		recordSubmissionOutcome(category, "rejected_duplicate")
		return "", shared.NewDuplicateEmailError(shared.RejectionMessage(shared.ErrCodeDuplicateEmail, req.Language))
	}

	record := &model.Registration{
		ID:        uuid.NewString(),
		Category:  category,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		TradeCode: req.Category.String(),
		TradeID:   svc.lookup.ResolveCategoryID(req.Category.String()),
		CityCode:  req.Location.String(),
		CityID:    svc.lookup.ResolveLocationID(req.Location.String()),
		Language:  req.Language,
		ClientIP:  meta.ClientKey,
		UserAgent: meta.UserAgent,
		Status:    shared.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := svc.store.InsertRegistration(record); err != nil {
		recordSubmissionOutcome(category, "failed_persistence")
		return "", shared.NewDatabaseError(err, shared.RejectionMessage(shared.ErrCodeDatabase, req.Language))
	}
	recordSubmissionOutcome(category, "persisted")

	svc.dispatchNotifications(NotificationData{
		Category: category,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Language: req.Language,
	})

	return shared.SuccessMessage(category, req.Language), nil
}

func (svc *SubmissionService) SubmitContact(req *dto.ContactRequest, meta dto.RequestMeta) (string, error) {
	req.Normalize()

	if err := svc.admit(shared.CategoryContact, meta.ClientKey, req.Language); err != nil {
		return "", err
	}

	if err := req.Validate(); err != nil {
		recordSubmissionOutcome(shared.CategoryContact, "rejected_validation")
		return "", shared.NewValidationError(dto.JoinValidationErrors(err))
	}

	if spam, reason := svc.abuse.ScreenContact(req); spam {
		return "", svc.rejectSpam(shared.CategoryContact, reason, req.Language)
	}

	record := &model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Language:  req.Language,
		ClientIP:  meta.ClientKey,
		UserAgent: meta.UserAgent,
		Status:    shared.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := svc.store.InsertContact(record); err != nil {
		recordSubmissionOutcome(shared.CategoryContact, "failed_persistence")
		return "", shared.NewDatabaseError(err, shared.RejectionMessage(shared.ErrCodeDatabase, req.Language))
	}
	recordSubmissionOutcome(shared.CategoryContact, "persisted")

	svc.dispatchNotifications(NotificationData{
		Category: shared.CategoryContact,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Language: req.Language,
	})

	return shared.SuccessMessage(shared.CategoryContact, req.Language), nil
}

func (svc *SubmissionService) SubmitRecommendation(req *dto.RecommendRequest, meta dto.RequestMeta) (string, error) {
	req.Normalize()

	if err := svc.admit(shared.CategoryRecommendation, meta.ClientKey, req.Language); err != nil {
		return "", err
	}

	if err := req.Validate(); err != nil {
		recordSubmissionOutcome(shared.CategoryRecommendation, "rejected_validation")
		return "", shared.NewValidationError(dto.JoinValidationErrors(err))
	}

	if spam, reason := svc.abuse.ScreenRecommendation(req); spam {
		return "", svc.rejectSpam(shared.CategoryRecommendation, reason, req.Language)
	}

	record := &model.Recommendation{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		IsRecommendation: req.IsRecommendation,
		UstaName:         req.UstaName,
		UstaPhone:        req.UstaPhone,
		TradeCode:        req.Category.String(),
		TradeID:          svc.lookup.ResolveCategoryID(req.Category.String()),
		CityCode:         req.Location.String(),
		CityID:           svc.lookup.ResolveLocationID(req.Location.String()),
		Language:         req.Language,
		ClientIP:         meta.ClientKey,
		UserAgent:        meta.UserAgent,
		Status:           shared.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	if err := svc.store.InsertRecommendation(record); err != nil {
		recordSubmissionOutcome(shared.CategoryRecommendation, "failed_persistence")
		return "", shared.NewDatabaseError(err, shared.RejectionMessage(shared.ErrCodeDatabase, req.Language))
	}
	recordSubmissionOutcome(shared.CategoryRecommendation, "persisted")

	svc.dispatchNotifications(NotificationData{
		Category:  shared.CategoryRecommendation,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		UstaName:  req.UstaName,
		UstaPhone: req.UstaPhone,
		Language:  req.Language,
	})

	return shared.SuccessMessage(shared.CategoryRecommendation, req.Language), nil
}

// dispatchNotifications schedules the confirmation and admin emails as
// two independent sends. The HTTP response is already decided by the
// time these run; a failed email never rolls back a stored submission.
func (svc *SubmissionService) dispatchNotifications(data NotificationData) {
	go func() {
		if err := svc.notifier.SendConfirmation(data); err != nil {
			log.WithError(err).WithField("category", data.Category).Error("Failed to send confirmation email")
			recordNotificationFailure(data.Category, "confirmation")
		}
	}()

	go func() {
		if err := svc.notifier.SendAdminNotification(data); err != nil {
			log.WithError(err).WithField("category", data.Category).Error("Failed to send admin notification")
			recordNotificationFailure(data.Category, "admin")
		}
	}()
}
