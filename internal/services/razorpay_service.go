package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"vyapar-backend/internal/config"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

var (
	ErrRazorpayDisabled = errors.New("razorpay not configured")
	ErrBadSignature     = errors.New("invalid webhook signature")
)

// RazorpayService creates payment links for outstanding invoices and
// records payments confirmed by Razorpay webhooks.
type RazorpayService struct {
	cfg      *config.Config
	client   *razorpay.Client
	invoices *InvoiceService
	payments *PaymentService
	parties  *PartyService
}

func NewRazorpayService(
	cfg *config.Config,
	invoices *InvoiceService,
	payments *PaymentService,
	parties *PartyService,
) *RazorpayService {
	s := &RazorpayService{cfg: cfg, invoices: invoices, payments: payments, parties: parties}
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		s.client = razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
		log.Printf("[Razorpay] payment links enabled")
	}
	return s
}

func (s *RazorpayService) Enabled() bool {
	return s.client != nil
}

// CreatePaymentLink asks Razorpay for a shareable link covering an
// invoice's full amount. Amount goes over the wire in paise.
func (s *RazorpayService) CreatePaymentLink(ctx context.Context, invoiceID int) (map[string]interface{}, error) {
	if s.client == nil {
		return nil, ErrRazorpayDisabled
	}

	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	party, err := s.parties.Get(ctx, inv.PartyID)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":      int64(inv.TotalAmount * 100),
		"currency":    "INR",
		"description": fmt.Sprintf("Payment for %s", inv.Number),
		"reference_id": inv.Number,
		"customer": map[string]interface{}{
			"name":    party.Name,
			"contact": party.Phone,
			"email":   party.Email,
		},
		"notes": map[string]interface{}{
			"invoice_id": fmt.Sprintf("%d", inv.ID),
			"party_id":   fmt.Sprintf("%d", inv.PartyID),
		},
	}

	link, err := s.client.PaymentLink.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	return link, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature HMAC over the
// raw body.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) error {
	if s.cfg.Razorpay.WebhookSecret == "" {
		return ErrRazorpayDisabled
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.Razorpay.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// RecordWebhookPayment books a captured online payment against the
// invoice the link was issued for.
func (s *RazorpayService) RecordWebhookPayment(ctx context.Context, invoiceID, partyID int, amountPaise int64, razorpayPaymentID string) (*models.Payment, error) {
	req := models.CreatePaymentRequest{
		PartyID:   partyID,
		Direction: models.DirectionSalesReceipt,
		Amount:    float64(amountPaise) / 100,
		Date:      timeutil.Now().Format(timeutil.DateLayout),
		Mode:      "online",
		Reference: razorpayPaymentID,
		Notes:     "Razorpay payment",
		BillID:    &invoiceID,
	}
	return s.payments.Create(ctx, req, 0)
}
