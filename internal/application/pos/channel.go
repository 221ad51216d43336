package pos

import (
	"strings"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ChannelDetails are the channel-specific fields captured for an order
type ChannelDetails struct {
	TableLabel      string          `json:"table_label,omitempty"`
	PartySize       *int            `json:"party_size,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
}

// ChannelPolicy describes what a fulfilment channel requires and charges
type ChannelPolicy struct {
	Channel enum.Channel
	// UsesTabs channels keep the order as an open tab until it is settled
	UsesTabs bool
	// ContactHinted channels show name and phone but do not enforce them
	ContactHinted bool
	// ContactRequired channels reject checkout without name, phone and address
	ContactRequired bool
	// ChargesShipping channels add a shipping cost after the discount
	ChargesShipping bool
}

var policies = map[enum.Channel]ChannelPolicy{
	enum.ChannelSeated:   {Channel: enum.ChannelSeated, UsesTabs: true},
	enum.ChannelTakeaway: {Channel: enum.ChannelTakeaway, ContactHinted: true},
	enum.ChannelDelivery: {Channel: enum.ChannelDelivery, ContactRequired: true, ChargesShipping: true},
}

// PolicyFor returns the policy of a channel; unknown channels behave as seated
func PolicyFor(c enum.Channel) ChannelPolicy {
	if p, ok := policies[c]; ok {
		return p
	}
	return policies[enum.ChannelSeated]
}

// Surcharge is the amount added on top of the discounted total
func (p ChannelPolicy) Surcharge(d ChannelDetails) decimal.Decimal {
	if !p.ChargesShipping || d.ShippingCost.IsNegative() {
		return decimal.Zero
	}
	return d.ShippingCost
}

// TotalToCharge adds the channel surcharge to the discounted total
func (p ChannelPolicy) TotalToCharge(afterDiscount decimal.Decimal, d ChannelDetails) decimal.Decimal {
	return afterDiscount.Add(p.Surcharge(d))
}

// Validate enforces the channel's checkout requirements
func (p ChannelPolicy) Validate(d ChannelDetails) error {
	if p.ContactRequired {
		var missing []apperror.FieldError
		if strings.TrimSpace(d.CustomerName) == "" {
			missing = append(missing, apperror.FieldError{Field: "customer_name", Message: "required for delivery"})
		}
		if strings.TrimSpace(d.CustomerPhone) == "" {
			missing = append(missing, apperror.FieldError{Field: "customer_phone", Message: "required for delivery"})
		}
		if strings.TrimSpace(d.CustomerAddress) == "" {
			missing = append(missing, apperror.FieldError{Field: "customer_address", Message: "required for delivery"})
		}
		if len(missing) > 0 {
			return rejection(ErrDeliveryFieldsRequired, missing...)
		}
	}
	if p.ChargesShipping && d.ShippingCost.IsNegative() {
		return ErrInvalidShippingCost
	}
	return nil
}

// Hints lists soft warnings for the order, such as missing takeaway contact data
func (p ChannelPolicy) Hints(d ChannelDetails) []string {
	var hints []string
	if p.ContactHinted {
		if strings.TrimSpace(d.CustomerName) == "" {
			hints = append(hints, "customer name is recommended for takeaway")
		}
		if strings.TrimSpace(d.CustomerPhone) == "" {
			hints = append(hints, "customer phone is recommended for takeaway")
		}
	}
	return hints
}
