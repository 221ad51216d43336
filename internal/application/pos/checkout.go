package pos

import (
	"context"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleDescription is the ledger description of every point-of-sale income
const SaleDescription = "POS sale"

// CheckoutState is a step of the sale commit pipeline
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateRejected
	StateCommitting
	StateCommitted
)

var checkoutStateNames = [...]string{"idle", "validating", "rejected", "committing", "committed"}

func (s CheckoutState) String() string {
	if s < 0 || int(s) >= len(checkoutStateNames) {
		return "unknown"
	}
	return checkoutStateNames[s]
}

// ConfirmSale validates the working order, records it as a sale and resets the
// session for the next customer.
//
// Rejections and ledger failures leave the cart, discount and payments as they
// were. After the ledger accepts the sale the bound tab, if any, is closed; a
// failed close is logged and does not undo the sale.
func (s *Session) ConfirmSale(ctx context.Context) (*entity.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transition(StateValidating)
	sale, err := s.buildSaleLocked()
	if err != nil {
		s.transition(StateRejected)
		s.transition(StateIdle)
		return nil, err
	}

	s.transition(StateCommitting)
	if err := s.ledger.AppendSale(ctx, sale); err != nil {
		s.log.Error("sale append failed", zap.String("sale_no", sale.Number), zap.Error(err))
		s.transition(StateIdle)
		return nil, apperror.NewCollaboratorError("could not record sale", err)
	}
	s.transition(StateCommitted)

	if s.tabID != nil {
		s.closeTabLocked(ctx, *s.tabID)
	}
	s.resetLocked()

	s.log.Info("sale committed",
		zap.String("sale_no", sale.Number),
		zap.String("channel", sale.Channel.String()),
		zap.String("total", sale.TotalAfter.String()),
		zap.String("method", sale.PaymentMethodSummary),
	)
	s.transition(StateIdle)
	return sale, nil
}

func (s *Session) buildSaleLocked() (*entity.Sale, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	policy := PolicyFor(s.channel)
	if err := policy.Validate(s.details); err != nil {
		return nil, err
	}

	subtotal := s.cart.Subtotal()
	disc := ComputeDiscount(subtotal, s.discount)
	shipping := policy.Surcharge(s.details)
	total := policy.TotalToCharge(disc.Total, s.details)

	payments := s.payments.Entries()
	if len(payments) == 0 {
		payments = []entity.PaymentEntry{{Method: s.defaultMethod, Amount: total}}
	}
	paid := SumPayments(payments)
	if paid.LessThan(total) {
		return nil, rejection(ErrInsufficientPayment, apperror.FieldError{
			Field:   "payments",
			Message: "missing " + total.Sub(paid).String(),
		})
	}

	discountMode, discountValue := s.discount.Mode, s.discount.Value
	if discountMode == enum.DiscountNone {
		discountValue = decimal.Zero
	}

	sale := &entity.Sale{
		ID:                   uuid.New(),
		Number:               utils.GenerateSaleNo(),
		Timestamp:            s.now(),
		Channel:              s.channel,
		Items:                s.cart.Items(),
		Subtotal:             subtotal,
		DiscountMode:         discountMode,
		DiscountValue:        discountValue,
		DiscountAmount:       disc.Discount,
		ShippingCost:         shipping,
		TotalAfter:           total,
		Payments:             payments,
		PaymentMethodSummary: SummarizeMethods(payments),
		Change:               paid.Sub(total),
		Notes:                s.notes,
		Description:          SaleDescription,
	}

	if s.tabID != nil {
		id := *s.tabID
		sale.TabID = &id
	}

	switch s.channel {
	case enum.ChannelSeated:
		sale.TableLabel = s.details.TableLabel
		sale.PartySize = s.details.PartySize
	case enum.ChannelTakeaway:
		sale.CustomerName = s.details.CustomerName
		sale.CustomerPhone = s.details.CustomerPhone
	case enum.ChannelDelivery:
		sale.CustomerName = s.details.CustomerName
		sale.CustomerPhone = s.details.CustomerPhone
		sale.CustomerAddress = s.details.CustomerAddress
	}

	return sale, nil
}

func (s *Session) closeTabLocked(ctx context.Context, id uuid.UUID) {
	if s.saver != nil {
		if err := s.saver.Discard(ctx, id); err != nil {
			s.log.Warn("pending tab writes not drained before close", zap.String("tab_id", id.String()), zap.Error(err))
		}
	}
	if err := s.tabs.Close(ctx, id); err != nil {
		s.log.Warn("sale recorded but tab left open", zap.String("tab_id", id.String()), zap.Error(err))
	}
}

// resetLocked clears the order after a commit. Channel and default method stay.
func (s *Session) resetLocked() {
	s.cart.Clear()
	s.discount = DiscountSpec{}
	s.notes = ""
	s.payments.Reset()
	s.details.ShippingCost = decimal.Zero
	if s.tabID != nil {
		s.details.TableLabel = ""
		s.details.PartySize = nil
	}
	s.tabID = nil
}

func (s *Session) transition(to CheckoutState) {
	if s.stateHook != nil {
		s.stateHook(to)
	}
}
