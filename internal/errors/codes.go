package errors

// Code is a machine-readable ledger failure code. Callers (UI screens or the
// assistant's tool dispatcher) branch on the code and render the message.
type Code string

// Session and input codes.
const (
	NotLoggedIn      Code = "NOT_LOGGED_IN"
	InvalidAmount    Code = "INVALID_AMOUNT"
	ValidationFailed Code = "VALIDATION_FAILED"
)

// Transfer codes.
const (
	RecipientNotFound      Code = "RECIPIENT_NOT_FOUND"
	AmbiguousRecipient     Code = "AMBIGUOUS_RECIPIENT"
	SelfTransferNotAllowed Code = "SELF_TRANSFER_NOT_ALLOWED"
	InsufficientFunds      Code = "INSUFFICIENT_FUNDS"
)

// Instrument codes.
const (
	InstrumentNotFound  Code = "INSTRUMENT_NOT_FOUND"
	ApplicationRejected Code = "APPLICATION_REJECTED"
	ExtensionDenied     Code = "EXTENSION_DENIED"
)

// Store codes.
const (
	PersistenceError  Code = "PERSISTENCE_ERROR"
	TransientConflict Code = "TRANSIENT_CONFLICT"
)

// defaultMessages maps codes to their default human-readable messages.
var defaultMessages = map[Code]string{
	NotLoggedIn:            "Error: You are not logged in.",
	InvalidAmount:          "Error: Payment amount must be positive.",
	ValidationFailed:       "Error: The application is missing required information.",
	RecipientNotFound:      "Error: Contact or account not found.",
	AmbiguousRecipient:     "Error: More than one contact matches that name. Please use an account number.",
	SelfTransferNotAllowed: "Error: Cannot send money to yourself.",
	InsufficientFunds:      "Error: Insufficient funds.",
	InstrumentNotFound:     "Error: No matching card or loan was found.",
	ApplicationRejected:    "We're sorry, but we were unable to approve your application at this time.",
	ExtensionDenied:        "We're sorry, but we were unable to process a payment extension for this account at this time.",
	PersistenceError:       "An error occurred while processing your request. Please try again.",
	TransientConflict:      "Your request conflicted with another operation. Please try again.",
}

// MessageFor returns the default human-readable message for a code.
func MessageFor(code Code) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return defaultMessages[PersistenceError]
}

// IsValid reports whether the code is a registered ledger code.
func IsValid(code Code) bool {
	_, ok := defaultMessages[code]
	return ok
}
