package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"menu-bot/models"
)

const (
	DefaultOrderHost     = "wa.me"
	DefaultFallbackPhone = "351281325175"
	DefaultCurrency      = "€"

	notInformed = "Não informado"
)

var ErrCustomerNameRequired = errors.New("customer name is required")

var validate = validator.New()

// Opener hands a URL to the outside world (a browser tab, a chat button).
// It is the only side effect of dispatching an order; nothing is known about
// delivery afterwards.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string) error

func (f OpenerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

// OrderConfig tunes message composition and checkout rules.
type OrderConfig struct {
	RestaurantName      string
	Host                string // messaging host, e.g. wa.me
	FallbackPhone       string
	Currency            string
	RequireCustomerName bool
	ClearOnOrder        bool
}

func (c OrderConfig) withDefaults() OrderConfig {
	if c.RestaurantName == "" {
		c.RestaurantName = "Pizzeria Fenicia"
	}
	if c.Host == "" {
		c.Host = DefaultOrderHost
	}
	if c.FallbackPhone == "" {
		c.FallbackPhone = DefaultFallbackPhone
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	return c
}

// NormalizePhone strips every non-digit character.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RestaurantPhone returns the digits of the first contact, or fallback when
// there are no contacts or the first one has no digits.
func RestaurantPhone(contacts []models.Contact, fallback string) string {
	if len(contacts) > 0 {
		if p := NormalizePhone(contacts[0].Value); p != "" {
			return p
		}
	}
	return NormalizePhone(fallback)
}

// OrderURL builds the messaging deep-link that pre-fills message for phone.
func OrderURL(host, phone, message string) string {
	return "https://" + host + "/" + phone + "?text=" + EscapeText(message)
}

// EscapeText percent-encodes s for a query value, spaces as %20.
func EscapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// OrderLines turns cart entries into display lines for lang.
func OrderLines(items []CartItem, lang models.Language) []models.OrderLine {
	lines := make([]models.OrderLine, len(items))
	for i, ci := range items {
		lines[i] = models.OrderLine{
			Code:     ci.Item.Code,
			Name:     ci.Item.Name.Get(lang),
			Quantity: ci.Quantity,
			Subtotal: ci.Subtotal(),
		}
	}
	return lines
}

// FormatPrice renders an amount with two decimals and the currency suffix.
func FormatPrice(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + currency
}

// ComposeOrderMessage builds the text sent to the restaurant. The last line
// is always the total.
func ComposeOrderMessage(lines []models.OrderLine, total decimal.Decimal, req models.OrderRequest, restaurantName, currency string) string {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = notInformed
	}
	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		phone = notInformed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*🍕 NOVO PEDIDO - %s*\n\n", strings.ToUpper(restaurantName))
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", name)
	fmt.Fprintf(&b, "📞 *Contacto:* %s\n\n", phone)
	b.WriteString("--- *ITENS* ---\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %dx #%s %s (%s)\n", l.Quantity, l.Code, l.Name, FormatPrice(l.Subtotal, currency))
	}
	fmt.Fprintf(&b, "\n*Total a pagar: %s*", FormatPrice(total, currency))
	return b.String()
}

// Dispatcher validates a checkout, composes the order and opens its link.
type Dispatcher struct {
	cfg    OrderConfig
	opener Opener
}

func NewDispatcher(cfg OrderConfig, opener Opener) *Dispatcher {
	return &Dispatcher{cfg: cfg.withDefaults(), opener: opener}
}

func (d *Dispatcher) Config() OrderConfig { return d.cfg }

// Validate checks req without side effects.
func (d *Dispatcher) Validate(req models.OrderRequest) error {
	if d.cfg.RequireCustomerName && strings.TrimSpace(req.CustomerName) == "" {
		return ErrCustomerNameRequired
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid order request: %w", err)
	}
	return nil
}

// InvalidField names the first OrderRequest field rejected by Validate, or "".
func InvalidField(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field()
	}
	return ""
}

// Compose builds the order for cart without opening anything. An empty cart
// yields nil.
func (d *Dispatcher) Compose(cart *Cart, contacts []models.Contact, req models.OrderRequest) (*models.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, nil
	}
	if err := d.Validate(req); err != nil {
		return nil, err
	}
	if req.Lang == "" {
		req.Lang = models.DefaultLanguage
	}
	lines := OrderLines(cart.Items(), req.Lang)
	total := cart.Total()
	msg := ComposeOrderMessage(lines, total, req, d.cfg.RestaurantName, d.cfg.Currency)
	phone := RestaurantPhone(contacts, d.cfg.FallbackPhone)
	return &models.Order{
		Message:   msg,
		URL:       OrderURL(d.cfg.Host, phone, msg),
		Phone:     phone,
		Lines:     lines,
		Total:     total,
		ItemCount: cart.ItemCount(),
	}, nil
}

// Dispatch composes the order and opens its link exactly once. An empty cart
// is a no-op returning (nil, nil). Validation failures return before anything
// is opened. With ClearOnOrder the cart is emptied after a successful open.
func (d *Dispatcher) Dispatch(ctx context.Context, cart *Cart, contacts []models.Contact, req models.OrderRequest) (*models.Order, error) {
	order, err := d.Compose(cart, contacts, req)
	if err != nil || order == nil {
		return nil, err
	}
	if err := d.opener.Open(ctx, order.URL); err != nil {
		return nil, fmt.Errorf("open order link: %w", err)
	}
	if d.cfg.ClearOnOrder {
		cart.Clear()
	}
	return order, nil
}
