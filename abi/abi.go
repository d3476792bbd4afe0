package abi

import (
	"github.com/tonindexer/txmon/internal/core"
)

// UnknownFunction is reported when a receipt has nothing to derive an identifier from.
const UnknownFunction = "Unknown function"

// FunctionID returns the first topic of the first receipt log.
// It is usually an event signature hash rather than a method selector,
// so the value only approximates which contract method was invoked.
func FunctionID(r *core.Receipt) string {
	if r == nil || len(r.Logs) == 0 {
		return UnknownFunction
	}
	first := r.Logs[0]
	if first == nil || len(first.Topics) == 0 || first.Topics[0] == "" {
		return UnknownFunction
	}
	return first.Topics[0]
}
