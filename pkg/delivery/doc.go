// Package delivery routes notifications to recipients over WhatsApp, SMS
// and email with deterministic channel selection, failover and per-message
// cost accounting.
//
// Selection prefers the cheapest channel that can actually reach the
// recipient: WhatsApp first for phone numbers, then SMS, with email as a
// last resort. When a send fails in transport, the router walks a fixed
// failover chain (whatsapp -> sms -> email) with each channel attempted at
// most once.
//
//	router, err := delivery.NewRouter(cfg)
//	result := router.Route(ctx, "+27821234567", "Your application was received")
//	if !result.Success {
//	    // result.ErrorCode / result.ErrorMessage describe the failure;
//	    // Route never returns a Go error for delivery failures.
//	}
//
// Provider adapters implement the Sender interface; Twilio backs WhatsApp
// and SMS, Postmark backs email, and DevSender logs sends for local
// development.
package delivery
