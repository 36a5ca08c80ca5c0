package payment

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"telecare/config"
	"telecare/models"
)

// CheckoutRequest describes a booking checkout session to create. Amount is
// in the currency's smallest unit.
type CheckoutRequest struct {
	Input       models.BookingInput
	Amount      int64
	Currency    string
	Description string
}

// CreateBookingCheckout opens a checkout session for a booking payment. All
// booking fields ride along as session metadata so reconciliation can build
// the booking from the completion event alone.
func (s *DefaultPaymentService) CreateBookingCheckout(req CheckoutRequest) (*stripe.CheckoutSession, error) {
	meta := CheckoutMetadata{
		Type:         MetadataTypeBooking,
		Date:         req.Input.Date,
		Time:         req.Input.Time,
		PatientName:  req.Input.PatientName,
		PatientEmail: req.Input.PatientEmail,
		Phone:        req.Input.Phone,
		DOB:          req.Input.DOB,
		Address:      req.Input.Address,
		Service:      req.Input.Service,
		ProviderID:   req.Input.ProviderID,
	}
	return s.createSession(req.Input.PatientEmail, req.Amount, req.Currency, req.Description, meta)
}

// CreateFormCheckout opens a checkout session for an intake form payment.
// Only the form id travels in metadata; the form record already exists.
func (s *DefaultPaymentService) CreateFormCheckout(form *models.Form, amount int64, currency, description string) (*stripe.CheckoutSession, error) {
	meta := CheckoutMetadata{Type: MetadataTypeForm, FormID: form.ID}
	return s.createSession(form.Email, amount, currency, description, meta)
}

func (s *DefaultPaymentService) createSession(email string, amount int64, currency, description string, meta CheckoutMetadata) (*stripe.CheckoutSession, error) {
	if currency == "" {
		currency = "eur"
	}
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(config.AppConfig.CheckoutSuccessURL),
		CancelURL:     stripe.String(config.AppConfig.CheckoutCancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Metadata = meta.ToMap()

	sess, err := session.New(params)
	if err != nil {
		s.Logger.Error("failed to create checkout session", zap.Error(err))
		return nil, err
	}
	return sess, nil
}
