package purchase

import (
	"fmt"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	PolicyFraction = "fraction"
	PolicyFixed    = "fixed"
)

// MaxCurrencyScale is the number of decimal places stored money columns keep.
const MaxCurrencyScale = 2

// DownPaymentPolicy decides the DOWN_PAYMENT amount: a fraction of the
// purchase total or a fixed amount, rounded to Scale decimal places.
type DownPaymentPolicy struct {
	Kind  string
	Value decimal.Decimal
	Scale int32
}

func NewDownPaymentPolicy(cfg config.Payment) (DownPaymentPolicy, error) {
	policy := DownPaymentPolicy{
		Kind:  cfg.DownPaymentPolicy,
		Value: decimal.NewFromFloat(cfg.DownPaymentValue),
		Scale: cfg.CurrencyScale,
	}
	if policy.Scale < 0 || policy.Scale > MaxCurrencyScale {
		return DownPaymentPolicy{}, fmt.Errorf("currency scale must be in [0, %d], got %d", MaxCurrencyScale, policy.Scale)
	}
	switch policy.Kind {
	case PolicyFraction:
		if !policy.Value.IsPositive() || policy.Value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return DownPaymentPolicy{}, fmt.Errorf("down payment fraction must be in (0, 1), got %s", policy.Value)
		}
	case PolicyFixed:
		if !policy.Value.IsPositive() {
			return DownPaymentPolicy{}, fmt.Errorf("fixed down payment must be positive, got %s", policy.Value)
		}
	default:
		return DownPaymentPolicy{}, fmt.Errorf("unknown down payment policy %q", policy.Kind)
	}
	return policy, nil
}

// Amount returns what a transaction of paymentType charges on total.
func (p DownPaymentPolicy) Amount(paymentType domain.PaymentType, total decimal.Decimal) (decimal.Decimal, error) {
	switch paymentType {
	case domain.PaymentTypeFullPayment:
		return total, nil
	case domain.PaymentTypeDownPayment:
	default:
		return decimal.Zero, fmt.Errorf("%w: payment type %s cannot be initiated directly", domain.ErrInvalidRequestBodyValue, paymentType)
	}

	var amount decimal.Decimal
	if p.Kind == PolicyFixed {
		amount = p.Value.Round(p.Scale)
	} else {
		amount = total.Mul(p.Value).Round(p.Scale)
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(total) {
		return decimal.Zero, fmt.Errorf("%w: down payment %s is not below total %s",
			domain.ErrInvalidRequestBodyValue, amount, total)
	}
	return amount, nil
}
