package models

// Plan is a purchasable program. Amount is in the currency's minor unit.
type Plan struct {
	Key      string `json:"-"`
	Name     string `json:"name"`
	Amount   int64  `json:"price"`
	Currency string `json:"currency"`
}

// CheckoutMode selects between one-time and recurring checkout.
type CheckoutMode string

const (
	CheckoutPayment      CheckoutMode = "payment"
	CheckoutSubscription CheckoutMode = "subscription"
)

// CheckoutRequest is what the payment gateway needs to open a session.
type CheckoutRequest struct {
	Plan       Plan
	Mode       CheckoutMode
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is an opened payment session.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// PaymentStatus is the state of a payment session as reported by the provider.
type PaymentStatus struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"-"`
	AmountTotal   int64  `json:"amountTotal"`
}

// PaymentStatusPaid is the provider status of a settled session.
const PaymentStatusPaid = "paid"

// Paid reports whether the session has been settled.
func (p *PaymentStatus) Paid() bool {
	return p.Status == PaymentStatusPaid
}

// PaymentEventType classifies verified provider events.
type PaymentEventType string

const (
	PaymentEventCheckoutCompleted PaymentEventType = "checkout.session.completed"
	PaymentEventIgnored           PaymentEventType = "ignored"
)

// PaymentEvent is a verified provider notification.
type PaymentEvent struct {
	ID      string
	Type    PaymentEventType
	RawType string
	Session *PaymentStatus
}

var plans = [...]Plan{
	{Key: "basic", Name: "Базовый план (4-Week)", Amount: 699, Currency: "usd"},
	{Key: "premium", Name: "Премиум план (8-Week)", Amount: 1599, Currency: "usd"},
	{Key: "pro", Name: "Про план (12-Week)", Amount: 2599, Currency: "usd"},
}

// Plans returns the plan catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans[:])
	return out
}

// PlanByKey looks up a plan by its key.
func PlanByKey(key string) (Plan, bool) {
	for _, p := range plans {
		if p.Key == key {
			return p, true
		}
	}
	return Plan{}, false
}
