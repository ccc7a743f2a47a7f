package shared

// Submission categories. Each maps to its own validation schema,
// rate limit policy and notification templates.
const (
	CategoryRegistration   = "registration"
	CategoryWaitlist       = "waitlist"
	CategoryContact        = "contact"
	CategoryRecommendation = "recommendation"
	CategoryGdpr           = "gdpr"
)

// Submission lifecycle status. Transitions past pending are an admin
// concern and never happen inside the intake pipeline.
const (
	StatusPending = "pending"
)

const (
	LanguageSq = "sq"
	LanguageEn = "en"
)

// Error taxonomy. Every rejection maps to exactly one code.
const (
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeSpamDetected       = "SPAM_DETECTED"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeMissingDetails     = "MISSING_DETAILS"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeStorage            = "STORAGE_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeInvalidRequestType = "INVALID_REQUEST_TYPE"
	ErrCodeInvalidMethod      = "INVALID_METHOD"
)

// GDPR request types
const (
	GdprRequestAccess  = "access"
	GdprRequestExport  = "export"
	GdprRequestDelete  = "delete"
	GdprRequestRectify = "rectify"
)

// ClientKeyUnknown pools all clients whose IP cannot be derived from
// proxy headers into a single rate limit bucket.
const ClientKeyUnknown = "unknown"

// ServiceCategories are the trade codes accepted by registration and
// recommendation forms.
var ServiceCategories = []string{
	"plumber",
	"electrician",
	"carpenter",
	"painter",
	"mason",
	"tiler",
	"ac_technician",
	"cleaner",
	"other",
}

// Locations are the city codes served at launch.
var Locations = []string{
	"tirana",
	"durres",
	"vlore",
	"shkoder",
	"elbasan",
	"fier",
	"korce",
	"other",
}

type localizedMessage struct {
	Sq string
	En string
}

var successMessages = map[string]localizedMessage{
	CategoryRegistration: {
		Sq: "Faleminderit për regjistrimin! Do t'ju njoftojmë sapo të nisim.",
		En: "Thank you for registering! We will notify you as soon as we launch.",
	},
	CategoryWaitlist: {
		Sq: "Faleminderit për regjistrimin! Do t'ju njoftojmë sapo të nisim.",
		En: "Thank you for joining the waitlist! We will notify you as soon as we launch.",
	},
	CategoryContact: {
		Sq: "Faleminderit për mesazhin tuaj! Do t'ju përgjigjemi sa më shpejt.",
		En: "Thank you for your message! We will get back to you as soon as possible.",
	},
	CategoryRecommendation: {
		Sq: "Faleminderit për rekomandimin! Do ta kontaktojmë profesionistin së shpejti.",
		En: "Thank you for the recommendation! We will reach out to the professional shortly.",
	},
	CategoryGdpr: {
		Sq: "Kërkesa juaj u pranua. Do t'ju kontaktojmë brenda 30 ditëve.",
		En: "Your request has been received. We will contact you within 30 days.",
	},
}

var rejectionMessages = map[string]localizedMessage{
	ErrCodeRateLimited: {
		Sq: "Shumë kërkesa. Ju lutemi provoni përsëri më vonë.",
		En: "Too many requests. Please try again later.",
	},
	ErrCodeValidation: {
		Sq: "Të dhënat e dërguara nuk janë të vlefshme.",
		En: "The submitted data is not valid.",
	},
	// Deliberately generic: never reveal which heuristic triggered.
	ErrCodeSpamDetected: {
		Sq: "Kërkesa juaj nuk mund të pranohet.",
		En: "Your submission could not be accepted.",
	},
	ErrCodeDuplicateEmail: {
		Sq: "Ky email është regjistruar tashmë.",
		En: "This email is already registered.",
	},
	ErrCodeMissingDetails: {
		Sq: "Ju lutemi përshkruani të dhënat që dëshironi të korrigjoni.",
		En: "Please describe the data you would like to have corrected.",
	},
	ErrCodeDatabase: {
		Sq: "Ndodhi një gabim. Ju lutemi provoni përsëri.",
		En: "Something went wrong. Please try again.",
	},
	ErrCodeInternal: {
		Sq: "Ndodhi një gabim. Ju lutemi provoni përsëri.",
		En: "Something went wrong. Please try again.",
	},
	ErrCodeInvalidRequestType: {
		Sq: "Lloji i kërkesës nuk njihet.",
		En: "Unknown request type.",
	},
}

// SuccessMessage returns the localized success message for a category.
func SuccessMessage(category, language string) string {
	msg, ok := successMessages[category]
	if !ok {
		if language == LanguageSq {
			return "Faleminderit!"
		}
		return "Thank you!"
	}
	if language == LanguageSq {
		return msg.Sq
	}
	return msg.En
}

// RejectionMessage returns the localized user-facing message for an
// error code.
func RejectionMessage(code, language string) string {
	msg, ok := rejectionMessages[code]
	if !ok {
		msg = rejectionMessages[ErrCodeInternal]
	}
	if language == LanguageSq {
		return msg.Sq
	}
	return msg.En
}
