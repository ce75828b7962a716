// Package mail sends transactional email through SendGrid. Email is
// best-effort everywhere it is used; a send failure never fails the
// operation that triggered it.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"storefront-api/internal/domain"
)

type Service struct {
	client   *sendgrid.Client
	from     *sgmail.Email
	siteName string
}

// New builds a mail service. An empty API key returns nil, which
// callers treat as email disabled.
func New(apiKey, fromAddress, siteName string) *Service {
	if apiKey == "" || fromAddress == "" {
		return nil
	}
	if siteName == "" {
		siteName = "Storefront"
	}
	return &Service{
		client:   sendgrid.NewSendClient(apiKey),
		from:     sgmail.NewEmail(siteName, fromAddress),
		siteName: siteName,
	}
}

// SendOrderConfirmation emails the customer their order number and total.
func (s *Service) SendOrderConfirmation(_ context.Context, o domain.Order) error {
	to := sgmail.NewEmail(o.Customer.FirstName+" "+o.Customer.LastName, o.Customer.Email)
	subject := fmt.Sprintf("Order confirmation %s", o.OrderNumber)
	plain := fmt.Sprintf(
		"Thank you for your purchase!\n\nOrder number: %s\nTotal: $%d\nPayment method: %s\n\n%s",
		o.OrderNumber, o.Total, o.PaymentMethod, s.siteName,
	)
	html := fmt.Sprintf(
		"<p>Thank you for your purchase!</p><p>Order number: <strong>%s</strong><br>Total: <strong>$%d</strong><br>Payment method: %s</p><p>%s</p>",
		o.OrderNumber, o.Total, o.PaymentMethod, s.siteName,
	)

	resp, err := s.client.Send(sgmail.NewSingleEmail(s.from, subject, to, plain, html))
	if err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send order confirmation: sendgrid status %d", resp.StatusCode)
	}
	return nil
}
