// Package ses provides email notification services via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "loan-collections-api/internal/config"
	"loan-collections-api/internal/models"
	"loan-collections-api/internal/utils"
)

type sendAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    sendAPI
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// assignmentNotice is the data rendered into an assignment e-mail.
type assignmentNotice struct {
	AgentName     string
	CaseNumber    string
	CurrentDPD    int
	DPDBucket     string
	OverdueAmount string
	Priority      string
	PriorityScore int
}

var assignmentHTML = template.Must(template.New("assignment_notice").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
    <h2>New case assigned: {{.CaseNumber}}</h2>
    <p>Hi {{.AgentName}}, a collections case has been added to your worklist.</p>
    <table cellpadding="6" style="border-collapse: collapse;">
        <tr><td><strong>Priority</strong></td><td>{{.Priority}} (score {{.PriorityScore}})</td></tr>
        <tr><td><strong>Days past due</strong></td><td>{{.CurrentDPD}} ({{.DPDBucket}})</td></tr>
        <tr><td><strong>Overdue amount</strong></td><td>{{.OverdueAmount}}</td></tr>
    </table>
</body>
</html>`))

// NewService creates a new SES service
func NewService(ctx context.Context, cfg *appConfig.Config) (*Service, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(awsCfg),
		fromEmail: cfg.SESSenderEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// SendAssignmentNotice e-mails an agent about a case added to their worklist.
func (s *Service) SendAssignmentNotice(ctx context.Context, user *models.User, c *models.CollectionCase) error {
	notice := assignmentNotice{
		AgentName:     user.FullName(),
		CaseNumber:    c.CaseNumber,
		CurrentDPD:    c.CurrentDPD,
		DPDBucket:     c.DPDBucket,
		OverdueAmount: c.OverdueAmount.StringFixed(2),
		Priority:      string(c.CasePriority),
		PriorityScore: c.PriorityScore,
	}

	var html bytes.Buffer
	if err := assignmentHTML.Execute(&html, notice); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	_, err := s.SendEmail(ctx, EmailParams{
		To:       user.Email,
		Subject:  fmt.Sprintf("[%s] Case %s assigned to you", notice.Priority, notice.CaseNumber),
		HTMLBody: html.String(),
		TextBody: renderAssignmentText(notice),
	})
	return err
}

func renderAssignmentText(n assignmentNotice) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Hi %s,\n\n", n.AgentName)
	fmt.Fprintf(&buf, "Case %s has been added to your worklist.\n\n", n.CaseNumber)
	fmt.Fprintf(&buf, "Priority: %s (score %d)\n", n.Priority, n.PriorityScore)
	fmt.Fprintf(&buf, "Days past due: %d (%s)\n", n.CurrentDPD, n.DPDBucket)
	fmt.Fprintf(&buf, "Overdue amount: %s\n\n", n.OverdueAmount)
	buf.WriteString("Collections Operations\n")

	return buf.String()
}
