package model

// SubjectRecords bundles everything held about one email address, for
// GDPR access and export handling.
type SubjectRecords struct {
	Registrations   []Registration   `json:"registrations"`
	Contacts        []ContactMessage `json:"contacts"`
	Recommendations []Recommendation `json:"recommendations"`
	GdprRequests    []GdprRequest    `json:"gdpr_requests"`
}

func (r *SubjectRecords) Empty() bool {
	return len(r.Registrations) == 0 && len(r.Contacts) == 0 &&
		len(r.Recommendations) == 0 && len(r.GdprRequests) == 0
}
