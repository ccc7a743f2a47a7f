package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vzorr/musta-website/shared"
)

// NotificationData is everything the mail templates need about one
// submission.
type NotificationData struct {
	Category    string
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	UstaName    string
	UstaPhone   string
	RequestType string
	ExportURL   string
	Language    string
}

type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	adminEmail   string

	templates map[string]*template.Template
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.adminEmail = os.Getenv("ADMIN_EMAIL")

	// Set defaults if not provided
	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "Musta"
	}

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	err := svc.loadTemplates()
	if err != nil {
		log.WithError(err).Error("Failed to load email templates")
		// Don't fail startup, just log the error
	}

	return nil
}

const confirmationEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #1D4ED8; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Heading}}</h1>
        </div>
        <div class="content">
            <h2>{{.Greeting}} {{.Name}},</h2>
            <p>{{.Body}}</p>
        </div>
        <div class="footer">
            <p>&copy; 2026 Musta. {{.Footer}}</p>
        </div>
    </div>
</body>
</html>
`

const adminNotificationEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New {{.Category}} submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New {{.Category}} submission</h1>
        </div>
        <div class="details">
            <strong>Name:</strong> {{.Name}}<br>
            <strong>Email:</strong> {{.Email}}<br>
            <strong>Phone:</strong> {{.Phone}}<br>
            {{if .Subject}}<strong>Subject:</strong> {{.Subject}}<br>{{end}}
            {{if .Message}}<strong>Message:</strong> {{.Message}}<br>{{end}}
            {{if .UstaName}}<strong>Recommended professional:</strong> {{.UstaName}} ({{.UstaPhone}})<br>{{end}}
            {{if .RequestType}}<strong>Request type:</strong> {{.RequestType}}<br>{{end}}
            {{if .ExportURL}}<strong>Export download:</strong> <a href="{{.ExportURL}}">{{.ExportURL}}</a><br>{{end}}
            <strong>Language:</strong> {{.Language}}
        </div>
    </div>
</body>
</html>
`

type confirmationTemplateData struct {
	Subject  string
	Heading  string
	Greeting string
	Name     string
	Body     string
	Footer   string
}

type localizedCopy struct {
	Subject string
	Heading string
	Body    string
}

var confirmationCopy = map[string]map[string]localizedCopy{
	shared.CategoryRegistration: {
		shared.LanguageSq: {
			Subject: "Regjistrimi juaj u prano - Musta",
			Heading: "Mirë se vini në Musta!",
			Body:    "Faleminderit për regjistrimin. Do t'ju njoftojmë me email sapo platforma të jetë gati.",
		},
		shared.LanguageEn: {
			Subject: "Your registration was received - Musta",
			Heading: "Welcome to Musta!",
			Body:    "Thank you for registering. We will email you as soon as the platform is ready.",
		},
	},
	shared.CategoryWaitlist: {
		shared.LanguageSq: {
			Subject: "Jeni në listën e pritjes - Musta",
			Heading: "Jeni në listë!",
			Body:    "Faleminderit! Jeni shtuar në listën e pritjes dhe do të njoftoheni ndër të parët.",
		},
		shared.LanguageEn: {
			Subject: "You are on the waitlist - Musta",
			Heading: "You are on the list!",
			Body:    "Thank you! You have been added to the waitlist and will be among the first to hear from us.",
		},
	},
	shared.CategoryContact: {
		shared.LanguageSq: {
			Subject: "Morëm mesazhin tuaj - Musta",
			Heading: "Faleminderit për mesazhin!",
			Body:    "Mesazhi juaj ka mbërritur dhe do t'ju përgjigjemi sa më shpejt të jetë e mundur.",
		},
		shared.LanguageEn: {
			Subject: "We received your message - Musta",
			Heading: "Thank you for reaching out!",
			Body:    "Your message has arrived and we will get back to you as soon as possible.",
		},
	},
	shared.CategoryRecommendation: {
		shared.LanguageSq: {
			Subject: "Faleminderit për rekomandimin - Musta",
			Heading: "Rekomandimi u prano!",
			Body:    "Faleminderit për rekomandimin. Do ta kontaktojmë profesionistin së shpejti.",
		},
		shared.LanguageEn: {
			Subject: "Thank you for the recommendation - Musta",
			Heading: "Recommendation received!",
			Body:    "Thank you for the recommendation. We will reach out to the professional shortly.",
		},
	},
	shared.CategoryGdpr: {
		shared.LanguageSq: {
			Subject: "Kërkesa juaj u prano - Musta",
			Heading: "Kërkesa u prano",
			Body:    "Kërkesa juaj për të dhënat personale u prano dhe do të trajtohet brenda 30 ditëve.",
		},
		shared.LanguageEn: {
			Subject: "Your request was received - Musta",
			Heading: "Request received",
			Body:    "Your personal data request has been received and will be handled within 30 days.",
		},
	},
}

func (svc *EmailService) loadTemplates() error {
	var err error

	svc.templates["confirmation"], err = template.New("confirmation").Parse(confirmationEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse confirmation email template: %v", err)
	}

	svc.templates["admin_notification"], err = template.New("admin_notification").Parse(adminNotificationEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse admin notification email template: %v", err)
	}

	return nil
}

// SendConfirmation emails the submitter a localized confirmation.
func (svc *EmailService) SendConfirmation(data NotificationData) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping confirmation email")
		return nil
	}
	if data.Email == "" {
		return nil
	}

	copies, ok := confirmationCopy[data.Category]
	if !ok {
		return fmt.Errorf("no confirmation copy for category %s", data.Category)
	}
	c, ok := copies[data.Language]
	if !ok {
		c = copies[shared.LanguageSq]
	}

	greeting := "Hi"
	footer := "All rights reserved."
	if data.Language == shared.LanguageSq {
		greeting = "Përshëndetje"
		footer = "Të gjitha të drejtat e rezervuara."
	}

	tmplData := confirmationTemplateData{
		Subject:  c.Subject,
		Heading:  c.Heading,
		Greeting: greeting,
		Name:     data.Name,
		Body:     c.Body,
		Footer:   footer,
	}

	return svc.sendTemplateEmail(data.Email, c.Subject, "confirmation", tmplData)
}

// SendAdminNotification emails the operations inbox about a new
// submission.
func (svc *EmailService) SendAdminNotification(data NotificationData) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping admin notification")
		return nil
	}
	if svc.adminEmail == "" {
		log.Warn("ADMIN_EMAIL not configured, skipping admin notification")
		return nil
	}

	subject := fmt.Sprintf("New %s submission - %s", data.Category, data.Name)
	return svc.sendTemplateEmail(svc.adminEmail, subject, "admin_notification", data)
}

func (svc *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	tmpl, exists := svc.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var body bytes.Buffer
	err := tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.sendEmail(to, subject, body.String())
}

func (svc *EmailService) sendEmail(to, subject, body string) error {
	if svc.smtpHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := smtp.SendMail(
		svc.smtpHost+":"+svc.smtpPort,
		auth,
		svc.fromEmail,
		[]string{to},
		msg,
	)

	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent successfully")
	return nil
}
