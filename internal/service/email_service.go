package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"btebresults/internal/models"
)

// sesSender is the part of the SES client the service uses
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends upload reports via Amazon SES
type EmailService struct {
	client    sesSender
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail yields a
// disabled service that silently skips every send.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES (region=%s, from=%s)", awsRegion, fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendUploadReport mails the ingestion summary of an uploaded result PDF
func (s *EmailService) SendUploadReport(ctx context.Context, toEmail, fileName string, outcome *models.UploadOutcome) error {
	if !s.enabled {
		if s.debug {
			log.Printf("[DEBUG] Skipping upload report to %s (service disabled)", toEmail)
		}
		return nil
	}

	subject, htmlBody, textBody := uploadReportContent(fileName, outcome)
	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func uploadReportContent(fileName string, outcome *models.UploadOutcome) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Result upload processed: %s", fileName)

	var errorsHTML, errorsText strings.Builder
	if len(outcome.Errors) > 0 {
		errorsHTML.WriteString("<h3>Rows with errors</h3><ul>")
		errorsText.WriteString("\nRows with errors:\n")
		for _, e := range outcome.Errors {
			fmt.Fprintf(&errorsHTML, "<li>%s</li>", html.EscapeString(e))
			fmt.Fprintf(&errorsText, "- %s\n", e)
		}
		errorsHTML.WriteString("</ul>")
	}

	htmlBody = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1f2937; color: #4ade80; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		td { padding: 4px 12px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Result Upload Report</h1>
		</div>
		<div class="content">
			<p>The result document <strong>%s</strong> has been processed.</p>
			<table>
				<tr><td>Students processed</td><td>%d</td></tr>
				<tr><td>New records</td><td>%d</td></tr>
				<tr><td>Updated records</td><td>%d</td></tr>
			</table>
			%s
		</div>
		<div class="footer">
			<p>This is an automated email from BTEB Results. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(fileName), outcome.TotalStudents, outcome.NewRecords, outcome.UpdatedRecords, errorsHTML.String())

	textBody = fmt.Sprintf(`The result document %s has been processed.

Students processed: %d
New records: %d
Updated records: %d
%s
---
This is an automated email from BTEB Results. Please do not reply.
`, fileName, outcome.TotalStudents, outcome.NewRecords, outcome.UpdatedRecords, errorsText.String())

	return subject, htmlBody, textBody
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

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
