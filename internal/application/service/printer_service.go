package service

import (
	"context"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/printer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrinterService formats committed sales as tickets and sends them to the printer
type PrinterService struct {
	printer     printer.Printer
	ledger      repository.LedgerRepository
	printerType string
	storeName   string
	currency    string
	log         *zap.Logger
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	ledger repository.LedgerRepository,
	printerType, storeName, currency string,
	log *zap.Logger,
) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer:     p,
		ledger:      ledger,
		printerType: printerType,
		storeName:   storeName,
		currency:    currency,
		log:         log,
	}
}

// PrinterStatus reports whether a printer is configured and reachable
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus probes the printer
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// PrintSale prints the ticket of a recorded sale. The receipt is returned even
// when the printer fails so the caller can show it on screen.
func (s *PrinterService) PrintSale(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.ledger.GetSale(ctx, saleID)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	receipt := s.BuildReceipt(sale)
	if err := s.printer.Print(ctx, FormatReceipt(receipt)); err != nil {
		s.log.Error("receipt print failed", zap.String("sale_no", sale.Number), zap.Error(err))
		return receipt, apperror.NewCollaboratorError("could not print receipt", err)
	}
	s.log.Info("receipt printed", zap.String("sale_no", sale.Number))
	return receipt, nil
}

// BuildReceipt composes the printable view of a sale
func (s *PrinterService) BuildReceipt(sale *entity.Sale) *entity.Receipt {
	r := &entity.Receipt{
		StoreName: s.storeName,
		Currency:  s.currency,
		SaleNo:    sale.Number,
		Date:      sale.Timestamp.Format("02/01/2006 15:04"),
		Channel:   sale.Channel.String(),
		Table:     sale.TableLabel,
		Customer:  sale.CustomerName,
		Phone:     sale.CustomerPhone,
		Address:   sale.CustomerAddress,
		Subtotal:  sale.Subtotal,
		Discount:  sale.DiscountAmount,
		Shipping:  sale.ShippingCost,
		Total:     sale.TotalAfter,
		Change:    sale.Change,
		Notes:     sale.Notes,
	}
	for _, item := range sale.Items {
		r.Lines = append(r.Lines, entity.ReceiptLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal(),
			Note:      item.Note,
		})
	}
	for _, p := range sale.Payments {
		r.Payments = append(r.Payments, entity.ReceiptPayment{Method: p.Method.String(), Amount: p.Amount})
	}
	return r
}

// FormatReceipt renders a receipt as ESC/POS bytes for 58mm paper
func FormatReceipt(r *entity.Receipt) []byte {
	money := func(v string) string { return r.Currency + v }
	doc := printer.NewDocument(printer.Width58mm)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Sale:", r.SaleNo).
		KeyValue("Date:", r.Date).
		KeyValue("Channel:", r.Channel)
	if r.Table != "" {
		doc.KeyValue("Table:", r.Table)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Phone != "" {
		doc.KeyValue("Phone:", r.Phone)
	}
	if r.Address != "" {
		doc.Wrap("Address: " + r.Address)
	}
	doc.Separator('-')

	for _, l := range r.Lines {
		doc.ItemLine(l.Quantity, l.Name, money(l.Total.StringFixedBank(2)))
		if l.Quantity > 1 {
			doc.TextF("  @ %s", money(l.UnitPrice.StringFixedBank(2)))
		}
		if l.Note != "" {
			doc.Wrap("  * " + l.Note)
		}
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.Subtotal.StringFixedBank(2)))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount.StringFixedBank(2)))
	}
	if r.Shipping.IsPositive() {
		doc.KeyValue("Shipping:", money(r.Shipping.StringFixedBank(2)))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total.StringFixedBank(2))).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(p.Method+":", money(p.Amount.StringFixedBank(2)))
	}
	if r.Change.IsPositive() {
		doc.KeyValue("Change:", money(r.Change.StringFixedBank(2)))
	}
	if r.Notes != "" {
		doc.Separator('-').Wrap(r.Notes)
	}

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
