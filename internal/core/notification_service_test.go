package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ageback-backend-go/internal/mailer"
)

func TestSendCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("Should render the credential email", func(t *testing.T) {
		sender := &MockSender{}
		svc := NewNotificationService(sender, "AgeBack <postmaster@mg.example.com>", time.Second, zap.NewNop())

		var msg mailer.Message
		sender.On("Send", mock.Anything, mock.AnythingOfType("mailer.Message")).
			Run(func(args mock.Arguments) { msg = args.Get(1).(mailer.Message) }).
			Return("<id@mg>", nil).Once()

		id, err := svc.SendCredential(ctx, "anna@example.com", "", "Zx9Yw8Vu")
		require.NoError(t, err)
		assert.Equal(t, "<id@mg>", id)
		assert.Equal(t, "Добро пожаловать!", msg.Subject)
		assert.Equal(t, "anna@example.com", msg.To)
		assert.Contains(t, msg.HTML, "Здравствуйте, Пользователь!")
		assert.Contains(t, msg.HTML, "Zx9Yw8Vu")
		assert.Contains(t, msg.Text, "Ваш код: Zx9Yw8Vu")
	})

	t.Run("Should escape the name in html", func(t *testing.T) {
		sender := &MockSender{}
		svc := NewNotificationService(sender, "a@example.com", time.Second, zap.NewNop())

		var msg mailer.Message
		sender.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { msg = args.Get(1).(mailer.Message) }).
			Return("", nil).Once()

		_, err := svc.SendCredential(ctx, "x@example.com", "<b>Eve</b>", "code")
		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "<b>Eve</b>")
	})

	t.Run("Should report delivery failures", func(t *testing.T) {
		sender := &MockSender{}
		svc := NewNotificationService(sender, "a@example.com", time.Second, zap.NewNop())
		sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("401")).Once()

		_, err := svc.SendCredential(ctx, "x@example.com", "X", "code")
		assert.ErrorIs(t, err, ErrEmailDelivery)
	})
}

func TestSendTestCredential(t *testing.T) {
	sender := &MockSender{}
	svc := NewNotificationService(sender, "a@example.com", time.Second, zap.NewNop())
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.To == "test@example.com"
	})).Return("msg-9", nil).Once()

	res, err := svc.SendTestCredential(context.Background(), " Test@Example.com ")
	require.NoError(t, err)
	assert.Len(t, res.Code, CredentialLengthStandard)
	assert.Equal(t, "msg-9", res.MessageID)

	_, err = svc.SendTestCredential(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}
