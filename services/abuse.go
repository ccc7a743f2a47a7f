package services

import (
	"regexp"
	"strings"

	"github.com/alphabatem/common/context"

	"github.com/vzorr/musta-website/dto"
)

// AbuseReason tags why a submission was flagged. Logged and counted
// internally only; the client always sees the same generic rejection so
// the heuristics cannot be probed.
type AbuseReason string

const (
	AbuseReasonNone               AbuseReason = ""
	AbuseReasonSpamKeywords       AbuseReason = "spam_keywords"
	AbuseReasonEmbeddedURL        AbuseReason = "embedded_url"
	AbuseReasonRepeatedChars      AbuseReason = "repeated_chars"
	AbuseReasonDisposableEmail    AbuseReason = "disposable_email"
	AbuseReasonTooManyURLs        AbuseReason = "too_many_urls"
	AbuseReasonSelfRecommendation AbuseReason = "self_recommendation"
)

var (
	pharmaPattern    = regexp.MustCompile(`(?i)\b(viagra|cialis|levitra|pharmacy|cheap pills)\b`)
	moneyPattern     = regexp.MustCompile(`(?i)\b(lottery|jackpot|casino|prize|winner|earn money|make money|free cash|crypto profit)\b`)
	clickBaitPattern = regexp.MustCompile(`(?i)(click here|buy now|limited offer|act now|order now)`)
	urlPattern       = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
)

// disposableEmailDomains is a small blocklist of throwaway providers
// seen in contact form spam.
var disposableEmailDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"temp-mail.org":     true,
	"throwaway.email":   true,
	"yopmail.com":       true,
	"trashmail.com":     true,
	"getnada.com":       true,
	"sharklasers.com":   true,
	"dispostable.com":   true,
	"maildrop.cc":       true,
}

// AbuseService is a heuristic classifier run after structural
// validation. False positives and false negatives are both expected;
// the thresholds favor catching spam over never losing a signup.
type AbuseService struct {
	context.DefaultService
}

const ABUSE_SVC = "abuse_svc"

func (svc AbuseService) Id() string {
	return ABUSE_SVC
}

func (svc *AbuseService) Start() error {
	return nil
}

// ScreenRegistration checks a registration or waitlist submission.
func (svc *AbuseService) ScreenRegistration(req *dto.RegisterRequest) (bool, AbuseReason) {
	return screenText(req.Name, true)
}

// ScreenContact checks a contact submission. On top of the generic
// checks, disposable sender domains and link-stuffed messages are
// rejected.
func (svc *AbuseService) ScreenContact(req *dto.ContactRequest) (bool, AbuseReason) {
	if spam, reason := screenText(req.Name+" "+req.Subject, true); spam {
		return true, reason
	}
	if spam, reason := screenText(req.Message, false); spam {
		return true, reason
	}

	if domain := emailDomain(req.Email); disposableEmailDomains[domain] {
		return true, AbuseReasonDisposableEmail
	}

	if len(urlPattern.FindAllStringIndex(req.Message, -1)) > 2 {
		return true, AbuseReasonTooManyURLs
	}

	return false, AbuseReasonNone
}

// ScreenRecommendation checks a recommendation submission. A declared
// third-party referral whose recommender matches the recommended
// professional exactly is self-promotion wearing a costume.
func (svc *AbuseService) ScreenRecommendation(req *dto.RecommendRequest) (bool, AbuseReason) {
	if spam, reason := screenText(req.Name+" "+req.UstaName, true); spam {
		return true, reason
	}

	if req.IsRecommendation &&
		strings.EqualFold(strings.TrimSpace(req.Name), strings.TrimSpace(req.UstaName)) &&
		normalizePhone(req.Phone) == normalizePhone(req.UstaPhone) {
		return true, AbuseReasonSelfRecommendation
	}

	return false, AbuseReasonNone
}

// ScreenGdpr checks a GDPR request. Details may legitimately quote a
// URL, so only keyword and repetition checks apply there.
func (svc *AbuseService) ScreenGdpr(req *dto.GdprRequest) (bool, AbuseReason) {
	if spam, reason := screenText(req.Name, true); spam {
		return true, reason
	}
	return screenText(req.Details, false)
}

// screenText runs the category-agnostic checks. rejectURLs applies to
// fields that should never contain a link, such as names and subjects.
func screenText(text string, rejectURLs bool) (bool, AbuseReason) {
	if text == "" {
		return false, AbuseReasonNone
	}

	if pharmaPattern.MatchString(text) ||
		moneyPattern.MatchString(text) ||
		clickBaitPattern.MatchString(text) {
		return true, AbuseReasonSpamKeywords
	}

	if rejectURLs && urlPattern.MatchString(text) {
		return true, AbuseReasonEmbeddedURL
	}

	if hasRepeatedRun(text, 5) {
		return true, AbuseReasonRepeatedChars
	}

	return false, AbuseReasonNone
}

// hasRepeatedRun reports whether any single character repeats n or more
// times consecutively. RE2 has no backreferences, so this is a loop.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// normalizePhone strips formatting so +355 69 000 000 and +35569000000
// compare equal.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
