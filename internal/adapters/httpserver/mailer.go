package httpserver

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/boscoapparel/shop/internal/domain"
)

// notifyOrder mails the shop a heads-up about a fresh order. Best effort: a
// mail failure never affects the placed order, and missing SMTP config turns
// it into a no-op.
func (s *Server) notifyOrder(o *domain.Order) {
	cfg := s.cfg
	if cfg.SMTPHost == "" || cfg.OrderNotifyMail == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\r\n\r\n", o.OrderNumber)
	if sd := o.ShippingData; sd != nil {
		fmt.Fprintf(&b, "Customer: %s\r\nPhone: %s\r\nAddress: %s, %s, %s\r\n\r\n",
			sd.Name, sd.Phone, sd.Address, sd.City, sd.Country)
	}
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d\r\n", it.ProductID, it.Qty)
	}
	fmt.Fprintf(&b, "\r\nSubtotal: %.2f\r\nShipping: %.2f\r\nTotal: %.2f\r\nPayment: %s\r\n",
		o.Subtotal, o.Shipping, o.Total, o.PaymentType)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: New order %s\r\n\r\n%s",
		cfg.SMTPUser, cfg.OrderNotifyMail, o.OrderNumber, b.String())

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	if err := smtp.SendMail(addr, auth, cfg.SMTPUser, []string{cfg.OrderNotifyMail}, []byte(msg)); err != nil {
		log.Warn().Err(err).Str("order", o.OrderNumber).Msg("order notification mail")
	}
}
