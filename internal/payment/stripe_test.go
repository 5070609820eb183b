package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ageback-backend-go/internal/models"
)

const testSecret = "whsec_test_secret"

func signed(t *testing.T, payload string) string {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return sp.Header
}

func eventJSON(eventType, object string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":"2020-08-27","type":%q,"data":{"object":%s}}`, eventType, object)
}

func TestParseWebhook(t *testing.T) {
	g := NewStripeGateway("sk_test", testSecret, time.Second)

	t.Run("Should decode a completed checkout session", func(t *testing.T) {
		payload := eventJSON("checkout.session.completed",
			`{"id":"cs_1","object":"checkout.session","payment_status":"paid","amount_total":699,"customer_email":"fallback@example.com","customer_details":{"email":"anna@example.com","name":"Anna"}}`)

		ev, err := g.ParseWebhook([]byte(payload), signed(t, payload))
		require.NoError(t, err)

		assert.Equal(t, models.PaymentEventCheckoutCompleted, ev.Type)
		require.NotNil(t, ev.Session)
		assert.Equal(t, "cs_1", ev.Session.SessionID)
		assert.True(t, ev.Session.Paid())
		assert.Equal(t, "anna@example.com", ev.Session.CustomerEmail)
		assert.Equal(t, "Anna", ev.Session.CustomerName)
		assert.Equal(t, int64(699), ev.Session.AmountTotal)
	})

	t.Run("Should mark other events as ignored", func(t *testing.T) {
		payload := eventJSON("invoice.paid", `{"id":"in_1","object":"invoice"}`)

		ev, err := g.ParseWebhook([]byte(payload), signed(t, payload))
		require.NoError(t, err)
		assert.Equal(t, models.PaymentEventIgnored, ev.Type)
		assert.Equal(t, "invoice.paid", ev.RawType)
		assert.Nil(t, ev.Session)
	})

	t.Run("Should reject a bad signature", func(t *testing.T) {
		payload := eventJSON("checkout.session.completed", `{"id":"cs_1"}`)

		_, err := g.ParseWebhook([]byte(payload), "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, ErrSignature)

		_, err = g.ParseWebhook([]byte(payload), "")
		assert.ErrorIs(t, err, ErrSignature)
	})

	t.Run("Should refuse when no secret is configured", func(t *testing.T) {
		unconfigured := NewStripeGateway("sk_test", "", time.Second)

		_, err := unconfigured.ParseWebhook([]byte("{}"), "sig")
		assert.ErrorIs(t, err, ErrWebhookDisabled)
	})
}
