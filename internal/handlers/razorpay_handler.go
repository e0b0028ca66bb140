package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"vyapar-backend/internal/services"
	"vyapar-backend/pkg/utils"
)

type RazorpayHandler struct {
	razorpay *services.RazorpayService
}

func NewRazorpayHandler(razorpay *services.RazorpayService) *RazorpayHandler {
	return &RazorpayHandler{razorpay: razorpay}
}

// CreatePaymentLink issues a Razorpay link for an invoice.
func (h *RazorpayHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := pathID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	link, err := h.razorpay.CreatePaymentLink(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrRazorpayDisabled) {
			utils.RespondError(w, http.StatusServiceUnavailable, "razorpay not configured")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "create payment link failed")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, link)
}

// webhookEvent is the slice of the Razorpay payload we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID     string `json:"id"`
				Amount int64  `json:"amount"` // paise
				Notes  struct {
					InvoiceID string `json:"invoice_id"`
					PartyID   string `json:"party_id"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook records captured payments. Signature failures return 401;
// events we don't handle are acknowledged so Razorpay stops retrying.
func (h *RazorpayHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "read body failed")
		return
	}

	if err := h.razorpay.VerifyWebhookSignature(body, r.Header.Get("X-Razorpay-Signature")); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if event.Event != "payment.captured" {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	entity := event.Payload.Payment.Entity
	invoiceID, err1 := strconv.Atoi(entity.Notes.InvoiceID)
	partyID, err2 := strconv.Atoi(entity.Notes.PartyID)
	if err1 != nil || err2 != nil {
		// Payment was not made through one of our links; acknowledge
		// and move on.
		log.Printf("[Razorpay] captured payment %s without invoice notes", entity.ID)
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	p, err := h.razorpay.RecordWebhookPayment(r.Context(), invoiceID, partyID, entity.Amount, entity.ID)
	if err != nil {
		log.Printf("[Razorpay] record webhook payment failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "record payment failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"status": "recorded", "payment_id": p.ID})
}
