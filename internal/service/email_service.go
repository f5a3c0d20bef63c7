package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"log"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"matclub/internal/repository"
)

// EmailData is the data available to email template bodies.
type EmailData struct {
	Name           string
	MembershipType string
	Location       string
	ResetURL       string
}

// EmailService sends transactional email via Amazon SES, rendering
// admin-editable templates stored in the database.
type EmailService struct {
	client      *sesv2.Client
	contentRepo *repository.ContentRepository
	fromEmail   string
	fromName    string
	appBaseURL  string
	enabled     bool
}

// NewEmailService creates a new email service. When fromEmail is empty the
// service runs disabled and every send becomes a logged no-op.
func NewEmailService(contentRepo *repository.ContentRepository, awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{contentRepo: contentRepo, enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:      sesv2.NewFromConfig(cfg),
		contentRepo: contentRepo,
		fromEmail:   fromEmail,
		fromName:    fromName,
		appBaseURL:  appBaseURL,
		enabled:     true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendTemplatedEmail renders the named database template and sends it.
func (s *EmailService) SendTemplatedEmail(ctx context.Context, templateName, toEmail string, data EmailData) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): %s to %s", templateName, toEmail)
		return nil
	}

	subject, htmlBody, textBody, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail sends the welcome template to a new member.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	return s.SendTemplatedEmail(ctx, "welcome", toEmail, EmailData{Name: toName})
}

// SendPasswordResetEmail sends the password reset template with a reset
// link built from the token.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetToken string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", s.appBaseURL, resetToken)
	return s.SendTemplatedEmail(ctx, "password_reset", toEmail, EmailData{
		Name:     toName,
		ResetURL: resetURL,
	})
}

// renderTemplate loads a template row and executes subject, HTML and text
// bodies against the data. HTML bodies get html/template escaping; subject
// and text body are plain text templates.
func (s *EmailService) renderTemplate(name string, data EmailData) (subject, htmlBody, textBody string, err error) {
	tmpl, err := s.contentRepo.GetEmailTemplate(name)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to load email template: %w", err)
	}
	if tmpl == nil {
		return "", "", "", fmt.Errorf("email template %q not defined", name)
	}

	subject, err = renderText("subject", tmpl.Subject, data)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to render subject of %q: %w", name, err)
	}
	htmlBody, err = renderHTML(tmpl.HTMLBody, data)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to render html body of %q: %w", name, err)
	}
	textBody, err = renderText("text", tmpl.TextBody, data)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to render text body of %q: %w", name, err)
	}
	return subject, htmlBody, textBody, nil
}

func renderText(name, body string, data EmailData) (string, error) {
	t, err := texttemplate.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(body string, data EmailData) (string, error) {
	t, err := htmltemplate.New("html").Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
