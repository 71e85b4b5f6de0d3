package wallet

import (
	"errors"
	"fmt"
)

// EIP-1193 and EIP-1474 error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeUnrecognizedChain = 4902
	CodeInvalidParams     = -32602
	CodeInternal          = -32603
)

// ProviderError is an error reported by a wallet. It satisfies go-ethereum's
// rpc.Error, so codes from remote wallets and local ones are read the same way.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// ErrorCode returns the provider error code.
func (e *ProviderError) ErrorCode() int { return e.Code }

func newProviderError(code int, format string, args ...interface{}) *ProviderError {
	return &ProviderError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the provider error code from err, or 0 when err carries
// none.
func ErrorCode(err error) int {
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return 0
}

// IsUserRejected reports whether the user declined the request.
func IsUserRejected(err error) bool {
	return ErrorCode(err) == CodeUserRejected
}
