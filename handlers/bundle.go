package handlers

import (
	recordsRepo "telecare/database/repository/records"
	bookingSvc "telecare/services/booking"
	formSvc "telecare/services/form"
	"telecare/services/notification"
	paymentSvc "telecare/services/payment"
	providerSvc "telecare/services/provider"
	slotSvc "telecare/services/slot"
)

// HandlerBundle groups all endpoint handlers and the services they call.
type HandlerBundle struct {
	Slots     slotSvc.SlotService
	Bookings  bookingSvc.BookingService
	Providers providerSvc.ProviderService
	Forms     formSvc.FormService
	Payments  *paymentSvc.DefaultPaymentService
	Records   recordsRepo.RecordRepository
	Sessions  notification.SessionRegistry
}
