package model

import "time"

// Registration holds interest registrations and waitlist signups. The
// two categories share one schema; Category records which form the row
// came through.
type Registration struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Category  string    `json:"category" gorm:"not null;size:20;index"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Email     string    `json:"email" gorm:"not null;size:150;index"`
	Phone     string    `json:"phone" gorm:"not null;size:20"`
	TradeCode string    `json:"trade_code" gorm:"size:50"`
	TradeID   *int      `json:"trade_id,omitempty"`
	CityCode  string    `json:"city_code" gorm:"size:50"`
	CityID    *int      `json:"city_id,omitempty"`
	Language  string    `json:"language" gorm:"not null;size:2;default:sq"`
	ClientIP  string    `json:"client_ip" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:255"`
	Status    string    `json:"status" gorm:"not null;size:20;default:pending"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// ContactMessage is a contact form submission. Contacts are always-new
// events; there is no duplicate check on them.
type ContactMessage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Email     string    `json:"email" gorm:"not null;size:150;index"`
	Phone     string    `json:"phone" gorm:"not null;size:20"`
	Subject   string    `json:"subject" gorm:"size:200"`
	Message   string    `json:"message" gorm:"not null;type:text"`
	Language  string    `json:"language" gorm:"not null;size:2;default:sq"`
	ClientIP  string    `json:"client_ip" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:255"`
	Status    string    `json:"status" gorm:"not null;size:20;default:pending"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// Recommendation is a "recommend a professional" submission. When
// IsRecommendation is false the submitter is registering themselves.
type Recommendation struct {
	ID               string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Name             string    `json:"name" gorm:"not null;size:100"`
	Email            string    `json:"email" gorm:"size:150"`
	Phone            string    `json:"phone" gorm:"not null;size:20"`
	IsRecommendation bool      `json:"is_recommendation" gorm:"not null;default:false"`
	UstaName         string    `json:"usta_name" gorm:"size:100"`
	UstaPhone        string    `json:"usta_phone" gorm:"size:20"`
	TradeCode        string    `json:"trade_code" gorm:"size:50"`
	TradeID          *int      `json:"trade_id,omitempty"`
	CityCode         string    `json:"city_code" gorm:"size:50"`
	CityID           *int      `json:"city_id,omitempty"`
	Language         string    `json:"language" gorm:"not null;size:2;default:sq"`
	ClientIP         string    `json:"client_ip" gorm:"size:45"`
	UserAgent        string    `json:"user_agent" gorm:"size:255"`
	Status           string    `json:"status" gorm:"not null;size:20;default:pending"`
	CreatedAt        time.Time `json:"created_at" gorm:"not null"`
}

// GdprRequest is a data subject request. The record is persisted before
// any request handling runs so the legal trail survives partial failures.
type GdprRequest struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	RequestType string    `json:"request_type" gorm:"not null;size:20"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Email       string    `json:"email" gorm:"not null;size:150;index"`
	Phone       string    `json:"phone" gorm:"size:20"`
	Details     string    `json:"details" gorm:"type:text"`
	ExportURL   string    `json:"export_url,omitempty" gorm:"size:512"`
	Language    string    `json:"language" gorm:"not null;size:2;default:sq"`
	ClientIP    string    `json:"client_ip" gorm:"size:45"`
	UserAgent   string    `json:"user_agent" gorm:"size:255"`
	Status      string    `json:"status" gorm:"not null;size:20;default:pending"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}
