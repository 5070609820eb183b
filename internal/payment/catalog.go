package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"

	"ageback-backend-go/internal/models"
)

// PriceInfo is an active price as listed by the operator CLI.
type PriceInfo struct {
	ID          string
	ProductID   string
	ProductName string
	Amount      int64
	Currency    string
	Recurring   bool
}

// CreateProduct creates a product with a one-time price for plan and
// returns both ids.
func (g *StripeGateway) CreateProduct(ctx context.Context, plan models.Plan) (productID, priceID string, err error) {
	pp := &stripe.ProductParams{
		Name:        stripe.String(plan.Name),
		Description: stripe.String("AgeBack Coach program: " + plan.Name),
	}
	pp.Context = ctx
	pp.AddMetadata("plan", plan.Key)

	product, err := g.sc.Products.New(pp)
	if err != nil {
		return "", "", fmt.Errorf("create product %s: %w", plan.Key, err)
	}

	prp := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(plan.Amount),
		Currency:   stripe.String(plan.Currency),
	}
	prp.Context = ctx
	prp.AddMetadata("plan", plan.Key)

	price, err := g.sc.Prices.New(prp)
	if err != nil {
		return product.ID, "", fmt.Errorf("create price %s: %w", plan.Key, err)
	}
	return product.ID, price.ID, nil
}

// ListPrices returns up to limit active prices with their products expanded.
func (g *StripeGateway) ListPrices(ctx context.Context, limit int) ([]PriceInfo, error) {
	params := &stripe.PriceListParams{Active: stripe.Bool(true)}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(limit))
	params.AddExpand("data.product")

	var prices []PriceInfo
	it := g.sc.Prices.List(params)
	for len(prices) < limit && it.Next() {
		p := it.Price()
		info := PriceInfo{
			ID:        p.ID,
			Amount:    p.UnitAmount,
			Currency:  string(p.Currency),
			Recurring: p.Recurring != nil,
		}
		if p.Product != nil {
			info.ProductID = p.Product.ID
			info.ProductName = p.Product.Name
		}
		prices = append(prices, info)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	return prices, nil
}

// CheckAccount verifies the secret key by reading the account balance.
func (g *StripeGateway) CheckAccount(ctx context.Context) ([]string, error) {
	params := &stripe.BalanceParams{}
	params.Context = ctx

	b, err := g.sc.Balance.Get(params)
	if err != nil {
		return nil, fmt.Errorf("retrieve balance: %w", err)
	}
	var out []string
	for _, a := range b.Available {
		out = append(out, fmt.Sprintf("%d %s", a.Amount, a.Currency))
	}
	return out, nil
}
