package pos

import (
	"context"
	"sync"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog resolves products added to the cart
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
}

// SaleAppender receives committed sales
type SaleAppender interface {
	AppendSale(ctx context.Context, sale *entity.Sale) error
}

// Deps are the collaborators a session works against
type Deps struct {
	Catalog Catalog
	Ledger  SaleAppender
	Tabs    repository.OpenTabRepository
	Saver   *TabSaver
	Logger  *zap.Logger
}

// Option customises a Session
type Option func(*Session)

// WithDefaultMethod sets the tender used for new and synthesized payments
func WithDefaultMethod(m enum.PaymentMethod) Option {
	return func(s *Session) { s.defaultMethod = m }
}

// WithClock overrides the time source used to stamp sales
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithStateHook registers a callback fired on every checkout state transition
func WithStateHook(fn func(CheckoutState)) Option {
	return func(s *Session) { s.stateHook = fn }
}

// Session is the working order of one terminal: cart, discount, channel data,
// payments and the open tab it is bound to. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	terminalID string
	catalog    Catalog
	ledger     SaleAppender
	tabs       repository.OpenTabRepository
	saver      *TabSaver
	log        *zap.Logger
	now        func() time.Time
	stateHook  func(CheckoutState)

	channel       enum.Channel
	details       ChannelDetails
	cart          *Cart
	discount      DiscountSpec
	notes         string
	payments      *Payments
	defaultMethod enum.PaymentMethod

	tabID        *uuid.UUID
	tabCreatedAt time.Time
}

// NewSession creates an empty seated session for a terminal
func NewSession(terminalID string, deps Deps, opts ...Option) *Session {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	saver := deps.Saver
	if saver == nil && deps.Tabs != nil {
		saver = NewTabSaver(deps.Tabs, log)
	}

	s := &Session{
		terminalID:    terminalID,
		catalog:       deps.Catalog,
		ledger:        deps.Ledger,
		tabs:          deps.Tabs,
		saver:         saver,
		log:           log.With(zap.String("terminal_id", terminalID)),
		now:           time.Now,
		channel:       enum.ChannelSeated,
		cart:          &Cart{},
		payments:      &Payments{},
		defaultMethod: enum.PaymentCash,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Totals are the derived amounts of the current order
type Totals struct {
	Units         int             `json:"units"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	AfterDiscount decimal.Decimal `json:"after_discount"`
	Shipping      decimal.Decimal `json:"shipping"`
	TotalToCharge decimal.Decimal `json:"total_to_charge"`
	Paid          decimal.Decimal `json:"paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	Change        decimal.Decimal `json:"change"`
}

// View is a point-in-time copy of the session for display
type View struct {
	TerminalID     string                `json:"terminal_id"`
	Channel        enum.Channel          `json:"channel"`
	Details        ChannelDetails        `json:"details"`
	TabID          *uuid.UUID            `json:"tab_id,omitempty"`
	Items          []entity.LineItem     `json:"items"`
	Discount       DiscountSpec          `json:"discount"`
	Notes          string                `json:"notes"`
	Payments       []entity.PaymentEntry `json:"payments"`
	PaymentSummary string                `json:"payment_summary"`
	DefaultMethod  enum.PaymentMethod    `json:"default_method"`
	Totals         Totals                `json:"totals"`
	Hints          []string              `json:"hints,omitempty"`
}

// View returns the current state with freshly derived totals
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	policy := PolicyFor(s.channel)
	var tabID *uuid.UUID
	if s.tabID != nil {
		id := *s.tabID
		tabID = &id
	}
	return View{
		TerminalID:     s.terminalID,
		Channel:        s.channel,
		Details:        s.details,
		TabID:          tabID,
		Items:          s.cart.Items(),
		Discount:       s.discount,
		Notes:          s.notes,
		Payments:       s.payments.Entries(),
		PaymentSummary: SummarizeMethods(s.payments.entries),
		DefaultMethod:  s.defaultMethod,
		Totals:         s.totalsLocked(),
		Hints:          policy.Hints(s.details),
	}
}

// Totals recomputes every derived amount from the current state
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *Session) totalsLocked() Totals {
	policy := PolicyFor(s.channel)
	subtotal := s.cart.Subtotal()
	disc := ComputeDiscount(subtotal, s.discount)
	shipping := policy.Surcharge(s.details)
	total := disc.Total.Add(shipping)
	return Totals{
		Units:         s.cart.Units(),
		Subtotal:      subtotal,
		Discount:      disc.Discount,
		AfterDiscount: disc.Total,
		Shipping:      shipping,
		TotalToCharge: total,
		Paid:          s.payments.Sum(),
		Remaining:     s.payments.Remaining(total),
		Change:        s.payments.Change(total),
	}
}

// AddItem adds one unit of a catalog product. Unknown or inactive products are ignored.
func (s *Session) AddItem(ctx context.Context, productID uuid.UUID) error {
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return apperror.NewCollaboratorError("catalog lookup failed", err)
	}
	if product == nil || !product.Active {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(product)
	s.autosaveLocked()
	return nil
}

// DecrementItem removes one unit of a product
func (s *Session) DecrementItem(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.Decrement(productID) {
		s.autosaveLocked()
	}
}

// SetItemNote replaces the note of a cart entry
func (s *Session) SetItemNote(productID uuid.UUID, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart.SetNote(productID, note) {
		s.autosaveLocked()
	}
}

// ClearCart empties the cart
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.autosaveLocked()
}

// SetDiscount replaces the discount request
func (s *Session) SetDiscount(spec DiscountSpec) error {
	if !spec.Mode.IsValid() {
		return ErrInvalidDiscountMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = spec
	s.autosaveLocked()
	return nil
}

// SetNotes replaces the order notes
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.autosaveLocked()
}

// SetChannel switches the fulfilment channel. A bound tab stays bound on every
// channel so the sale that settles its items also closes it.
func (s *Session) SetChannel(c enum.Channel) error {
	if !c.IsValid() {
		return ErrInvalidChannel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = c
	return nil
}

// SetDetails replaces the channel-specific fields. The table label of a bound
// tab is kept from the tab.
func (s *Session) SetDetails(d ChannelDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDetailsLocked(d)
}

// SetChannelDetails switches the channel and replaces its fields in one step
func (s *Session) SetChannelDetails(c enum.Channel, d ChannelDetails) error {
	if !c.IsValid() {
		return ErrInvalidChannel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = c
	s.setDetailsLocked(d)
	return nil
}

func (s *Session) setDetailsLocked(d ChannelDetails) {
	if s.tabID != nil {
		d.TableLabel = s.details.TableLabel
		d.PartySize = s.details.PartySize
	}
	s.details = d
}

// SetDefaultMethod changes the tender used for new and synthesized payments
func (s *Session) SetDefaultMethod(m enum.PaymentMethod) error {
	if !m.IsValid() {
		return ErrInvalidPaymentMethod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultMethod = m
	return nil
}

// AddPayment appends a payment entry prefilled with the remaining balance
func (s *Session) AddPayment() entity.PaymentEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments.Add(s.defaultMethod, s.totalsLocked().TotalToCharge)
}

// RemovePayment drops a payment entry; an unknown index is ignored
func (s *Session) RemovePayment(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments.Remove(index)
}

// UpdatePayment edits a payment entry; an unknown index is ignored
func (s *Session) UpdatePayment(index int, patch PaymentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.payments.Update(index, patch)
	return err
}

// ListTabs returns every open tab
func (s *Session) ListTabs(ctx context.Context) ([]entity.OpenTab, error) {
	tabs, err := s.tabs.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list open tabs", err)
	}
	return tabs, nil
}

// OpenTab opens a new empty tab for a table and binds the session to it
func (s *Session) OpenTab(ctx context.Context, tableLabel string, partySize *int) (*entity.OpenTab, error) {
	if tableLabel == "" {
		return nil, ErrTableLabelRequired
	}
	tab, err := s.tabs.Create(ctx, tableLabel, partySize)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not open tab", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindLocked(tab)
	s.log.Info("tab opened", zap.String("tab_id", tab.ID.String()), zap.String("table", tab.TableLabel))
	return tab, nil
}

// LoadTab replaces the working order with a stored tab
func (s *Session) LoadTab(ctx context.Context, id uuid.UUID) (*entity.OpenTab, error) {
	if err := s.saver.Flush(ctx, id); err != nil {
		return nil, apperror.NewCollaboratorError("could not flush tab writes", err)
	}
	tab, err := s.tabs.Get(ctx, id)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not load tab", err)
	}
	if tab == nil {
		return nil, ErrTabNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindLocked(tab)
	return tab, nil
}

// AbandonTab closes a tab without recording a sale. When it is the bound tab
// the working order is cleared as well.
func (s *Session) AbandonTab(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saver.Discard(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not stop tab writes", err)
	}
	if err := s.tabs.Close(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not close tab", err)
	}
	if s.tabID != nil && *s.tabID == id {
		s.tabID = nil
		s.cart.Clear()
		s.discount = DiscountSpec{}
		s.notes = ""
		s.payments.Reset()
	}
	s.log.Info("tab abandoned", zap.String("tab_id", id.String()))
	return nil
}

func (s *Session) bindLocked(tab *entity.OpenTab) {
	id := tab.ID
	s.tabID = &id
	s.tabCreatedAt = tab.CreatedAt
	s.channel = enum.ChannelSeated
	s.details = ChannelDetails{TableLabel: tab.TableLabel, PartySize: tab.PartySize}
	s.cart = NewCart(tab.Items)
	s.discount = DiscountSpec{Mode: tab.DiscountMode, Value: tab.DiscountValue}
	s.notes = tab.Notes
	s.payments.Reset()
}

// autosaveLocked queues the bound tab's new state for writing
func (s *Session) autosaveLocked() {
	if s.tabID == nil || s.saver == nil {
		return
	}
	s.saver.Enqueue(&entity.OpenTab{
		ID:            *s.tabID,
		Channel:       enum.ChannelSeated,
		TableLabel:    s.details.TableLabel,
		PartySize:     s.details.PartySize,
		Items:         s.cart.Items(),
		DiscountMode:  s.discount.Mode,
		DiscountValue: s.discount.Value,
		Notes:         s.notes,
		CreatedAt:     s.tabCreatedAt,
	})
}
