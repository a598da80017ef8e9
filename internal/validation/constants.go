package validation

const (
	// Amount limits
	MinTransferAmount = 0.01
	MaxTransferAmount = 1000000.00

	// Password requirements
	MinPasswordLength = 6
	MaxPasswordLength = 72

	// String lengths
	MaxNameLength = 50
)
