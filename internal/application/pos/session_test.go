package pos

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	catalog *fakeCatalog
	ledger  *fakeLedger
	tabs    *memTabs
	saver   *TabSaver
	rollID  uuid.UUID
	sodaID  uuid.UUID
	session *Session
	states  []CheckoutState
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	roll := menuItem("California Roll", "2900")
	soda := menuItem("Coca-Cola 500ml", "1800")
	f := &fixture{
		catalog: newFakeCatalog(roll, soda),
		ledger:  &fakeLedger{},
		tabs:    newMemTabs(),
		rollID:  roll.ID,
		sodaID:  soda.ID,
	}
	f.saver = NewTabSaver(f.tabs, nil)
	f.session = f.newSession()
	t.Cleanup(f.saver.Wait)
	return f
}

func (f *fixture) newSession() *Session {
	return NewSession("caja-1", Deps{
		Catalog: f.catalog,
		Ledger:  f.ledger,
		Tabs:    f.tabs,
		Saver:   f.saver,
	},
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC) }),
		WithStateHook(func(s CheckoutState) { f.states = append(f.states, s) }),
	)
}

func (f *fixture) add(t *testing.T, id uuid.UUID, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		require.NoError(t, f.session.AddItem(context.Background(), id))
	}
}

func (f *fixture) setPayment(t *testing.T, method enum.PaymentMethod, amount string) {
	t.Helper()
	f.session.AddPayment()
	idx := len(f.session.View().Payments) - 1
	a := money(amount)
	require.NoError(t, f.session.UpdatePayment(idx, PaymentPatch{Method: &method, Amount: &a}))
}

func TestConfirmSaleImplicitCashWithDiscount(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.rollID, 2)
	require.NoError(t, f.session.SetDiscount(DiscountSpec{Mode: enum.DiscountPercent, Value: money("10")}))

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)

	assertMoney(t, "5800", sale.Subtotal)
	assertMoney(t, "580", sale.DiscountAmount)
	assertMoney(t, "5220", sale.TotalAfter)
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, enum.PaymentCash, sale.Payments[0].Method)
	assertMoney(t, "5220", sale.Payments[0].Amount)
	assert.Equal(t, "cash", sale.PaymentMethodSummary)
	assertMoney(t, "0", sale.Change)
	assert.Equal(t, SaleDescription, sale.Description)
	assert.Equal(t, 1, f.ledger.count())

	assert.Equal(t, []CheckoutState{StateValidating, StateCommitting, StateCommitted, StateIdle}, f.states)

	v := f.session.View()
	assert.Empty(t, v.Items)
	assert.Empty(t, v.Payments)
	assert.Equal(t, enum.DiscountNone, v.Discount.Mode)
	assert.Equal(t, enum.ChannelSeated, v.Channel)
}

func TestConfirmSaleMixedPayments(t *testing.T) {
	f := newFixture(t)
	f.catalog.items[f.rollID].Price = money("1000")
	f.add(t, f.rollID, 1)
	f.setPayment(t, enum.PaymentCash, "600")
	f.setPayment(t, enum.PaymentQR, "400")

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mixed", sale.PaymentMethodSummary)
	assert.Equal(t, "cash", sale.LedgerMethod())
	assertMoney(t, "0", sale.Change)
	assertMoney(t, "1000", sale.AmountPaid())
}

func TestConfirmSaleOverpaymentGivesChange(t *testing.T) {
	f := newFixture(t)
	f.catalog.items[f.rollID].Price = money("1000")
	f.add(t, f.rollID, 1)
	f.setPayment(t, enum.PaymentCash, "1200")

	assertMoney(t, "200", f.session.Totals().Change)
	assertMoney(t, "0", f.session.Totals().Remaining)

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)
	assertMoney(t, "200", sale.Change)
}

func TestConfirmSaleInsufficientPayment(t *testing.T) {
	f := newFixture(t)
	f.catalog.items[f.rollID].Price = money("1000")
	f.add(t, f.rollID, 1)
	f.setPayment(t, enum.PaymentCash, "500")

	_, err := f.session.ConfirmSale(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, 0, f.ledger.count())
	assert.Equal(t, []CheckoutState{StateValidating, StateRejected, StateIdle}, f.states)

	v := f.session.View()
	assert.Len(t, v.Items, 1)
	require.Len(t, v.Payments, 1)
	assertMoney(t, "500", v.Totals.Remaining)
}

func TestConfirmSaleEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.ConfirmSale(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.ledger.count())
}

func TestConfirmSaleDeliveryRequiresAddress(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetChannel(enum.ChannelDelivery))
	f.session.SetDetails(ChannelDetails{CustomerName: "Ana", CustomerPhone: "351555", ShippingCost: money("500")})
	f.add(t, f.rollID, 1)

	_, err := f.session.ConfirmSale(context.Background())
	assert.ErrorIs(t, err, ErrDeliveryFieldsRequired)
	assert.Equal(t, 0, f.ledger.count())
	assert.Len(t, f.session.View().Items, 1)
}

func TestConfirmSaleDeliveryAddsShippingAfterDiscount(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetChannel(enum.ChannelDelivery))
	f.session.SetDetails(ChannelDetails{
		CustomerName: "Ana", CustomerPhone: "351555", CustomerAddress: "Belgrano 123", ShippingCost: money("500"),
	})
	f.add(t, f.rollID, 2)
	require.NoError(t, f.session.SetDiscount(DiscountSpec{Mode: enum.DiscountPercent, Value: money("100")}))

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)
	assertMoney(t, "500", sale.TotalAfter)
	assertMoney(t, "500", sale.ShippingCost)
	assert.Equal(t, "Belgrano 123", sale.CustomerAddress)
	assert.Empty(t, sale.TableLabel)

	v := f.session.View()
	assert.Equal(t, enum.ChannelDelivery, v.Channel)
	assertMoney(t, "0", v.Details.ShippingCost)
}

func TestConfirmSaleLedgerFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	f.ledger.err = errors.New("disk full")
	f.add(t, f.rollID, 1)
	f.setPayment(t, enum.PaymentQR, "2900")

	_, err := f.session.ConfirmSale(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsCollaborator(err))
	assert.ErrorContains(t, err, "disk full")

	v := f.session.View()
	assert.Len(t, v.Items, 1)
	assert.Len(t, v.Payments, 1)
}

func TestAddUnknownOrInactiveProductIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.AddItem(context.Background(), uuid.New()))

	f.catalog.items[f.sodaID].Active = false
	require.NoError(t, f.session.AddItem(context.Background(), f.sodaID))
	assert.Empty(t, f.session.View().Items)
}

func TestAddItemCatalogFailure(t *testing.T) {
	f := newFixture(t)
	f.catalog.err = errors.New("catalog offline")
	err := f.session.AddItem(context.Background(), f.rollID)
	assert.True(t, apperror.IsCollaborator(err))
}

func TestOpenTabRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	party := 4

	tab, err := f.session.OpenTab(ctx, "5", &party)
	require.NoError(t, err)
	assert.Empty(t, tab.Items)

	f.add(t, f.rollID, 2)
	f.add(t, f.sodaID, 1)
	require.NoError(t, f.session.SetDiscount(DiscountSpec{Mode: enum.DiscountAmount, Value: money("300")}))
	f.session.SetNotes("sin wasabi")
	require.NoError(t, f.saver.Flush(ctx, tab.ID))

	fresh := f.newSession()
	loaded, err := fresh.LoadTab(ctx, tab.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", loaded.TableLabel)

	v := fresh.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, f.sodaID, v.Items[1].ProductID)
	assert.Equal(t, enum.DiscountAmount, v.Discount.Mode)
	assertMoney(t, "300", v.Discount.Value)
	assert.Equal(t, "sin wasabi", v.Notes)
	require.NotNil(t, v.TabID)
	assert.Equal(t, tab.ID, *v.TabID)
	assertMoney(t, "7300", v.Totals.TotalToCharge)
}

func TestConfirmSaleClosesBoundTab(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tab, err := f.session.OpenTab(ctx, "7", nil)
	require.NoError(t, err)
	f.add(t, f.rollID, 1)

	sale, err := f.session.ConfirmSale(ctx)
	require.NoError(t, err)
	require.NotNil(t, sale.TabID)
	assert.Equal(t, tab.ID, *sale.TabID)
	assert.Equal(t, "7", sale.TableLabel)

	f.saver.Wait()
	assert.False(t, f.tabs.has(tab.ID))
	assert.Nil(t, f.session.View().TabID)
}

func TestConfirmSaleTabCloseFailureKeepsSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tabs.closeErr = errors.New("locked")

	tab, err := f.session.OpenTab(ctx, "2", nil)
	require.NoError(t, err)
	f.add(t, f.rollID, 1)

	_, err = f.session.ConfirmSale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledger.count())
	assert.True(t, f.tabs.has(tab.ID))
	assert.Empty(t, f.session.View().Items)
}

func TestLoadMissingTab(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.LoadTab(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTabNotFound)
}

func TestOpenTabRequiresTable(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.OpenTab(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrTableLabelRequired)
}

func TestAbandonBoundTab(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tab, err := f.session.OpenTab(ctx, "9", nil)
	require.NoError(t, err)
	f.add(t, f.rollID, 3)

	require.NoError(t, f.session.AbandonTab(ctx, tab.ID))
	f.saver.Wait()
	assert.False(t, f.tabs.has(tab.ID))
	assert.Empty(t, f.session.View().Items)
	assert.Equal(t, 0, f.ledger.count())
}

func TestLoadedTabClosedWhenSoldOnAnotherChannel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tab, err := f.session.OpenTab(ctx, "7", nil)
	require.NoError(t, err)
	f.add(t, f.rollID, 2)
	f.saver.Wait()

	other := f.newSession()
	_, err = other.LoadTab(ctx, tab.ID)
	require.NoError(t, err)
	require.NoError(t, other.SetChannel(enum.ChannelTakeaway))

	sale, err := other.ConfirmSale(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5800", sale.TotalAfter.String())
	require.NotNil(t, sale.TabID)
	assert.Equal(t, tab.ID, *sale.TabID)
	assert.Empty(t, sale.TableLabel)

	f.saver.Wait()
	assert.False(t, f.tabs.has(tab.ID))

	_, err = f.newSession().LoadTab(ctx, tab.ID)
	assert.ErrorIs(t, err, ErrTabNotFound)
	assert.Equal(t, 1, f.ledger.count())
}

func TestSetChannelDetailsKeepsBoundTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.session.OpenTab(ctx, "4", nil)
	require.NoError(t, err)

	err = f.session.SetChannelDetails(enum.ChannelDelivery, ChannelDetails{
		TableLabel:      "99",
		CustomerName:    "Ana",
		CustomerPhone:   "351555",
		CustomerAddress: "Belgrano 120",
	})
	require.NoError(t, err)

	v := f.session.View()
	assert.Equal(t, enum.ChannelDelivery, v.Channel)
	assert.Equal(t, "4", v.Details.TableLabel)
	assert.Equal(t, "Belgrano 120", v.Details.CustomerAddress)

	err = f.session.SetChannelDetails(enum.Channel(5), ChannelDetails{CustomerName: "Beto"})
	assert.ErrorIs(t, err, ErrInvalidChannel)
	assert.Equal(t, "Ana", f.session.View().Details.CustomerName)
}

func TestSetDiscountRejectsUnknownMode(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.rollID, 1)

	err := f.session.SetDiscount(DiscountSpec{Mode: enum.DiscountMode(9), Value: money("50")})
	assert.ErrorIs(t, err, ErrInvalidDiscountMode)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enum.DiscountNone, sale.DiscountMode)
	assert.True(t, sale.DiscountValue.IsZero())
}

func TestCheckoutStateString(t *testing.T) {
	assert.Equal(t, "committing", StateCommitting.String())
	assert.Equal(t, "unknown", CheckoutState(42).String())
	assert.Equal(t, "unknown", CheckoutState(-1).String())
}

func TestSetChannelRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.session.SetChannel(enum.Channel(12)), ErrInvalidChannel)
}

func TestDefaultMethodUsedForSynthesizedPayment(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetDefaultMethod(enum.PaymentTransfer))
	f.add(t, f.sodaID, 1)

	sale, err := f.session.ConfirmSale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "transfer", sale.PaymentMethodSummary)
	assert.Equal(t, enum.PaymentTransfer, f.session.View().DefaultMethod)
}
