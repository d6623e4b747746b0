package notification

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// SendGridSender отправляет письмо-подтверждение заказа через SendGrid.
type SendGridSender struct {
	apiKey   string
	from     string
	fromName string
	logger   *log.Entry
}

// NewSendGridSender создаёт отправителя. Пустой apiKey считается ошибкой
// конфигурации при первой отправке, а не при конструировании.
func NewSendGridSender(apiKey, from, fromName string, logger *log.Entry) *SendGridSender {
	if logger == nil {
		logger = log.WithField("component", "sendgrid-sender")
	}
	return &SendGridSender{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

// SendOrderConfirmation собирает и отправляет письмо о заказе.
func (s *SendGridSender) SendOrderConfirmation(email string, order domain.Order) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if s.from == "" {
		return fmt.Errorf("from address is empty")
	}
	if email == "" {
		return fmt.Errorf("to address is empty")
	}

	subject := fmt.Sprintf("Order Confirmation - %s", order.ID)
	plain := buildOrderText(order)
	html := buildOrderHTML(order)

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		subject,
		mail.NewEmail("", email),
		plain,
		html,
	)

	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"to":       email,
		"status":   response.StatusCode,
	}).Info("письмо о заказе отправлено")

	return nil
}

func buildOrderText(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Order Date: %s\n\n", order.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s, size %s, qty %d, price %d\n", item.Name, item.Size, item.Qty, item.PriceMinor)
	}
	fmt.Fprintf(&b, "\nTotal: %d\n", order.TotalMinor)
	b.WriteString("Thank you for shopping with us!\n")
	return b.String()
}

func buildOrderHTML(order domain.Order) string {
	var b strings.Builder
	b.WriteString("<h3>Order Confirmation</h3>")
	fmt.Fprintf(&b, "<p>Order ID: %s</p>", order.ID)
	fmt.Fprintf(&b, "<p>Order Date: %s</p>", order.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("<ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s - Size: %s - Qty: %d - Price: %d</li>", item.Name, item.Size, item.Qty, item.PriceMinor)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Total: %d</p>", order.TotalMinor)
	b.WriteString("<p>Thank you for shopping with us!</p>")
	return b.String()
}

var _ domain.Notifier = (*SendGridSender)(nil)

// Noop — заглушка Notifier для локальной разработки без SendGrid.
type Noop struct {
	logger *log.Entry
}

// NewNoop создаёт notifier, который только логирует отправку.
func NewNoop(logger *log.Entry) *Noop {
	if logger == nil {
		logger = log.WithField("component", "noop-sender")
	}
	return &Noop{logger: logger}
}

// SendOrderConfirmation логирует письмо вместо отправки.
func (n *Noop) SendOrderConfirmation(email string, order domain.Order) error {
	n.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"to":       email,
	}).Info("email-отправка отключена, письмо пропущено")
	return nil
}

var _ domain.Notifier = (*Noop)(nil)
