package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/model"
	"github.com/vzorr/musta-website/shared"
)

// ==================== FAKES ====================

type fakeLimiter struct {
	allowed    bool
	retryAfter int
	err        error

	calls int
}

func (f *fakeLimiter) CheckLimit(category, clientKey string) (*dto.RateLimitInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RateLimitInfo{Allowed: f.allowed, RetryAfter: f.retryAfter}, nil
}

func (f *fakeLimiter) Reset(category, clientKey string) error { return nil }

func (f *fakeLimiter) Remaining(category, clientKey string) (int, error) { return 0, nil }

type fakeStore struct {
	mu sync.Mutex

	registrations   []*model.Registration
	contacts        []*model.ContactMessage
	recommendations []*model.Recommendation
	gdprRequests    []*model.GdprRequest

	existing  []model.Registration
	insertErr error
}

func (f *fakeStore) InsertRegistration(r *model.Registration) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, r)
	return nil
}

func (f *fakeStore) FindRegistrationsByEmail(category, email string) ([]model.Registration, error) {
	return f.existing, nil
}

func (f *fakeStore) InsertContact(c *model.ContactMessage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, c)
	return nil
}

func (f *fakeStore) InsertRecommendation(r *model.Recommendation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recommendations = append(f.recommendations, r)
	return nil
}

func (f *fakeStore) InsertGdprRequest(r *model.GdprRequest) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gdprRequests = append(f.gdprRequests, r)
	return nil
}

func (f *fakeStore) UpdateGdprRequest(r *model.GdprRequest) error { return nil }

func (f *fakeStore) CollectSubjectRecords(email string) (*model.SubjectRecords, error) {
	return &model.SubjectRecords{}, nil
}

func (f *fakeStore) DeleteSubjectRecords(email string) (int64, error) { return 0, nil }

type fakeNotifier struct {
	mu            sync.Mutex
	confirmations []NotificationData
	admins        []NotificationData
	sent          chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan struct{}, 8)}
}

func (f *fakeNotifier) SendConfirmation(data NotificationData) error {
	f.mu.Lock()
	f.confirmations = append(f.confirmations, data)
	f.mu.Unlock()
	f.sent <- struct{}{}
	return nil
}

func (f *fakeNotifier) SendAdminNotification(data NotificationData) error {
	f.mu.Lock()
	f.admins = append(f.admins, data)
	f.mu.Unlock()
	f.sent <- struct{}{}
	return nil
}

// waitForSends blocks until n dispatches have landed.
func (f *fakeNotifier) waitForSends(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.sent:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirmations), len(f.admins)
}

type fakeLookup struct {
	categoryID *int
	locationID *int
}

func (f *fakeLookup) ResolveCategoryID(code string) *int { return f.categoryID }

func (f *fakeLookup) ResolveLocationID(code string) *int { return f.locationID }

func newTestPipeline() (*SubmissionService, *fakeStore, *fakeNotifier) {
	store := &fakeStore{}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{allowed: true},
		store,
		&AbuseService{},
		notifier,
		&fakeLookup{},
	)
	return svc, store, notifier
}

func testMeta() dto.RequestMeta {
	return dto.RequestMeta{ClientKey: "1.2.3.4", UserAgent: "test-agent"}
}

func validRegister() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:     "Arben Hoxha",
		Email:    "Arben@Example.com",
		Phone:    "+355691234567",
		Category: "plumber",
		Location: "tirana",
	}
}

// ==================== TESTS ====================

func TestSubmitRegistrationPersistsAndNotifies(t *testing.T) {
	svc, store, notifier := newTestPipeline()

	message, err := svc.SubmitRegistration(shared.CategoryRegistration, validRegister(), testMeta())
	require.NoError(t, err)
	assert.Equal(t, shared.SuccessMessage(shared.CategoryRegistration, shared.LanguageSq), message)

	require.Len(t, store.registrations, 1)
	record := store.registrations[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, shared.CategoryRegistration, record.Category)
	assert.Equal(t, "arben@example.com", record.Email, "email is lowercased before persistence")
	assert.Equal(t, shared.StatusPending, record.Status)
	assert.Equal(t, "1.2.3.4", record.ClientIP)
	assert.Equal(t, "test-agent", record.UserAgent)
	assert.Equal(t, shared.LanguageSq, record.Language, "language defaults to Albanian")

	notifier.waitForSends(t, 2)
	confirmations, admins := notifier.counts()
	assert.Equal(t, 1, confirmations)
	assert.Equal(t, 1, admins)
}

func TestSubmitRegistrationWaitlistCategory(t *testing.T) {
	svc, store, notifier := newTestPipeline()

	message, err := svc.SubmitRegistration(shared.CategoryWaitlist, validRegister(), testMeta())
	require.NoError(t, err)
	assert.Equal(t, shared.SuccessMessage(shared.CategoryWaitlist, shared.LanguageSq), message)

	require.Len(t, store.registrations, 1)
	assert.Equal(t, shared.CategoryWaitlist, store.registrations[0].Category)
	notifier.waitForSends(t, 2)
}

func TestSubmitRegistrationRateLimited(t *testing.T) {
	store := &fakeStore{}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{allowed: false, retryAfter: 120},
		store, &AbuseService{}, notifier, &fakeLookup{},
	)

	_, err := svc.SubmitRegistration(shared.CategoryRegistration, validRegister(), testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeRateLimited, appErr.Code)
	assert.Equal(t, 120, appErr.RetryAfter)
	assert.Empty(t, store.registrations)
}

func TestSubmitRegistrationLimiterFailureAdmits(t *testing.T) {
	store := &fakeStore{}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{err: errors.New("redis: connection refused")},
		store, &AbuseService{}, notifier, &fakeLookup{},
	)

	_, err := svc.SubmitRegistration(shared.CategoryRegistration, validRegister(), testMeta())
	require.NoError(t, err, "a broken limiter backend fails open")
	assert.Len(t, store.registrations, 1)
	notifier.waitForSends(t, 2)
}

func TestSubmitRegistrationValidationBeforeAbuse(t *testing.T) {
	svc, store, _ := newTestPipeline()

	// Missing phone and a spam keyword in the name: structural
	// validation wins because it runs first.
	req := &dto.RegisterRequest{
		Name:  "cheap viagra outlet",
		Email: "spam@example.com",
	}
	_, err := svc.SubmitRegistration(shared.CategoryRegistration, req, testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeValidation, appErr.Code)
	assert.Empty(t, store.registrations)
}

func TestSubmitRegistrationSpamRejected(t *testing.T) {
	svc, store, notifier := newTestPipeline()

	req := validRegister()
	req.Name = "winner of the lottery"
	_, err := svc.SubmitRegistration(shared.CategoryRegistration, req, testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeSpamDetected, appErr.Code)
	assert.Empty(t, store.registrations)

	confirmations, admins := notifier.counts()
	assert.Zero(t, confirmations)
	assert.Zero(t, admins)
}

func TestSubmitRegistrationDuplicateEmail(t *testing.T) {
	store := &fakeStore{existing: []model.Registration{{ID: "existing"}}}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{allowed: true},
		store, &AbuseService{}, notifier, &fakeLookup{},
	)

	_, err := svc.SubmitRegistration(shared.CategoryRegistration, validRegister(), testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeDuplicateEmail, appErr.Code)
	assert.Empty(t, store.registrations)
}

func TestSubmitContactNoDuplicateCheck(t *testing.T) {
	svc, store, notifier := newTestPipeline()

	req := func() *dto.ContactRequest {
		return &dto.ContactRequest{
			Name:    "Arben Hoxha",
			Email:   "arben@example.com",
			Phone:   "+355691234567",
			Message: "Doja të di më shumë rreth platformës suaj.",
		}
	}

	_, err := svc.SubmitContact(req(), testMeta())
	require.NoError(t, err)
	_, err = svc.SubmitContact(req(), testMeta())
	require.NoError(t, err, "repeat contact messages from the same email are accepted")

	assert.Len(t, store.contacts, 2)
	notifier.waitForSends(t, 4)
}

func TestSubmitRegistrationPersistenceFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk I/O error")}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{allowed: true},
		store, &AbuseService{}, notifier, &fakeLookup{},
	)

	_, err := svc.SubmitRegistration(shared.CategoryRegistration, validRegister(), testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeDatabase, appErr.Code)

	// Nothing stored, nothing sent.
	confirmations, admins := notifier.counts()
	assert.Zero(t, confirmations)
	assert.Zero(t, admins)
}

func TestSubmitRecommendation(t *testing.T) {
	categoryID := 3
	store := &fakeStore{}
	notifier := newFakeNotifier()
	svc := NewSubmissionService(
		&fakeLimiter{allowed: true},
		store, &AbuseService{}, notifier, &fakeLookup{categoryID: &categoryID},
	)

	req := &dto.RecommendRequest{
		Name:             "Arben Hoxha",
		Phone:            "+355691234567",
		IsRecommendation: true,
		UstaName:         "Besnik Dervishi",
		UstaPhone:        "+355692223344",
		Category:         "electrician",
	}
	message, err := svc.SubmitRecommendation(req, testMeta())
	require.NoError(t, err)
	assert.Equal(t, shared.SuccessMessage(shared.CategoryRecommendation, shared.LanguageSq), message)

	require.Len(t, store.recommendations, 1)
	record := store.recommendations[0]
	assert.True(t, record.IsRecommendation)
	assert.Equal(t, "Besnik Dervishi", record.UstaName)
	assert.Equal(t, "electrician", record.TradeCode)
	require.NotNil(t, record.TradeID)
	assert.Equal(t, categoryID, *record.TradeID)
	assert.Nil(t, record.CityID, "unknown city codes resolve to nil")

	notifier.waitForSends(t, 2)
}

func TestSubmitRecommendationMissingUstaFields(t *testing.T) {
	svc, store, _ := newTestPipeline()

	req := &dto.RecommendRequest{
		Name:             "Arben Hoxha",
		Phone:            "+355691234567",
		IsRecommendation: true,
	}
	_, err := svc.SubmitRecommendation(req, testMeta())
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeValidation, appErr.Code)
	assert.Empty(t, store.recommendations)
}

func TestSubmitContactEnglishLanguage(t *testing.T) {
	svc, _, notifier := newTestPipeline()

	req := &dto.ContactRequest{
		Name:     "Arben Hoxha",
		Email:    "arben@example.com",
		Phone:    "+355691234567",
		Message:  "I would like to know more about your platform.",
		Language: shared.LanguageEn,
	}
	message, err := svc.SubmitContact(req, testMeta())
	require.NoError(t, err)
	assert.Equal(t, "Thank you for your message! We will get back to you as soon as possible.", message)

	notifier.waitForSends(t, 2)
	assert.Equal(t, shared.LanguageEn, notifier.confirmations[0].Language)
}
