package core

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"ageback-backend-go/internal/crypto"
	"ageback-backend-go/internal/mailer"
	"ageback-backend-go/internal/metrics"
	"ageback-backend-go/internal/models"
)

const (
	credentialSubject  = "Добро пожаловать!"
	defaultDisplayName = "Пользователь"
	testDisplayName    = "Тестовый пользователь"
)

var credentialHTML = template.Must(template.New("credential").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Здравствуйте, {{.Name}}!</h2>
  <p>Благодарим за регистрацию.</p>
  <p>Ваш код для входа:</p>
  <div style="background-color: #f0f8ff; padding: 20px; border-radius: 8px; margin: 25px 0; text-align: center; border: 2px solid #4a90e2;">
    <span style="font-size: 24px; font-weight: bold; color: #2c3e50; letter-spacing: 2px;">{{.Code}}</span>
  </div>
  <p>Сохраните этот код.</p>
  <p>С уважением,<br>AgeBack Coach</p>
</div>
`))

type notificationService struct {
	sender  mailer.Sender
	from    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewNotificationService sends credential emails from the given address.
// Each send is one attempt bounded by timeout.
func NewNotificationService(sender mailer.Sender, from string, timeout time.Duration, logger *zap.Logger) NotificationService {
	return &notificationService{
		sender:  sender,
		from:    from,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *notificationService) SendCredential(ctx context.Context, to, name, credential string) (string, error) {
	if name == "" {
		name = defaultDisplayName
	}

	var html bytes.Buffer
	if err := credentialHTML.Execute(&html, struct{ Name, Code string }{name, credential}); err != nil {
		return "", fmt.Errorf("render credential email: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.sender.Send(ctx, mailer.Message{
		From:    s.from,
		To:      to,
		Subject: credentialSubject,
		HTML:    html.String(),
		Text:    fmt.Sprintf("Здравствуйте, %s! Благодарим за регистрацию. Ваш код: %s", name, credential),
	})
	if err != nil {
		metrics.CredentialEmails.WithLabelValues(metrics.ResultFailed).Inc()
		return "", fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	metrics.CredentialEmails.WithLabelValues(metrics.ResultSent).Inc()
	s.logger.Info("Credential email sent", zap.String("email", to), zap.String("messageId", id))
	return id, nil
}

func (s *notificationService) SendTestCredential(ctx context.Context, to string) (*models.TestEmailResult, error) {
	to = models.NormalizeEmail(to)
	if to == "" {
		return nil, invalid(ReasonEmailRequired, "email is required")
	}

	code, err := crypto.GenerateCredential(CredentialLengthStandard)
	if err != nil {
		return nil, fmt.Errorf("generate test code: %w", err)
	}
	id, err := s.SendCredential(ctx, to, testDisplayName, code)
	if err != nil {
		return nil, err
	}
	return &models.TestEmailResult{Code: code, MessageID: id}, nil
}
