package dispatch

// User-facing notification texts. Format verbs take the flight number unless noted.
const (
	MsgSignInRequired = "Please log in to continue."

	MsgBookingSucceeded = "Successfully booked flight %s!"
	MsgBookingFailed    = "Booking failed. Please try again."

	MsgAlertSending          = "Sending SMS alert for %s..."
	MsgServiceUnavailable    = "SMS service is unavailable right now. Please try again later."
	MsgAlertSent             = "SMS alert sent for %s"
	MsgAlertSimulated        = "SMS alert simulated for %s (no SMS provider configured)"
	MsgContactNotRegistered  = "Register your phone number to receive SMS alerts."
	MsgAlertFailed           = "Failed to send SMS alert"
	MsgAlertTimeout          = "SMS request timed out. Please try again."
	MsgAlertConnectivity     = "Cannot reach the SMS service. Check your connection."
	MsgAlertServiceError     = "SMS service error. Please try again later."
	MsgContactRegistered     = "Phone number registered for SMS alerts."
	MsgContactRegisterFailed = "Could not register your phone number."

	// MsgFlightStatus takes flight number, airline and status label.
	MsgFlightStatus   = "Flight %s (%s): %s"
	MsgFlightNotFound = "Flight %s not found."

	// alertTemplate takes flight number, origin, destination and status label.
	alertTemplate = "SkyBook alert: flight %s from %s to %s is %s."
)
