package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"telecare/config"
	paymentSvc "telecare/services/payment"
	"telecare/utils"
)

// StripeWebhook is the single entry point for payment-provider events. The
// signature is verified against the raw body before anything is parsed.
func (hb *HandlerBundle) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read webhook body", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "webhook signature verification failed", err.Error())
		return
	}

	logger := utils.GetLogger()
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "malformed checkout session payload", err.Error())
			return
		}
		paymentRef := ""
		if sess.PaymentIntent != nil {
			paymentRef = sess.PaymentIntent.ID
		}
		email := sess.CustomerEmail
		if email == "" && sess.CustomerDetails != nil {
			email = sess.CustomerDetails.Email
		}
		meta := paymentSvc.MetadataFromMap(sess.Metadata)

		err := hb.Payments.HandleCheckoutCompleted(c.Request.Context(), sess.ID, paymentRef, email, meta)
		if errors.Is(err, paymentSvc.ErrSlotConflict) {
			// The payment is queued for operator review; tell the provider
			// delivery failed so it shows in their dashboard too.
			c.JSON(http.StatusConflict, gin.H{"error": "slot full"})
			return
		}
		if err != nil {
			logger.Error("checkout reconciliation failed",
				zap.String("sessionId", sess.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "malformed charge payload", err.Error())
			return
		}
		paymentRef := ""
		if charge.PaymentIntent != nil {
			paymentRef = charge.PaymentIntent.ID
		}
		if paymentRef == "" {
			logger.Warn("refund event without payment intent", zap.String("chargeId", charge.ID))
			break
		}
		if err := hb.Payments.HandleRefund(c.Request.Context(), paymentRef); err != nil {
			logger.Error("refund reconciliation failed",
				zap.String("paymentRef", paymentRef), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
			return
		}

	default:
		logger.Debug("unhandled webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
