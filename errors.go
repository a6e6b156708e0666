package yaep

import (
	"fmt"
	"sync"
)

// ErrorCode is the stable integer error surface of §6: every fallible
// operation on a Grammar or a Parser resolves to one of these, even when
// wrapped in a richer *Error underneath.
type ErrorCode int

// The error codes of spec §6. Values are part of the public API and must
// not be renumbered once released.
const (
	NoMemory ErrorCode = iota + 1
	UndefinedOrBadGrammar
	DescriptionSyntaxError
	FixedNameTermCode
	RepeatedTermCode
	NegativeTermCode
	RepeatedTerm
	UndefinedSymbol
	UndefinedRuleLHS
	RepeatedTerminalRule
	IncorrectTranslation
	NegativeCost
	IncorrectSymbolNumber
	RepeatedSymbolCode
	GrammarAlreadyRead
	DescriptionParseError
	InvalidTokenCode
	ParseError
)

var codeNames = map[ErrorCode]string{
	NoMemory:               "NoMemory",
	UndefinedOrBadGrammar:  "UndefinedOrBadGrammar",
	DescriptionSyntaxError: "DescriptionSyntaxError",
	FixedNameTermCode:      "FixedNameTermCode",
	RepeatedTermCode:       "RepeatedTermCode",
	NegativeTermCode:       "NegativeTermCode",
	RepeatedTerm:           "RepeatedTerm",
	UndefinedSymbol:        "UndefinedSymbol",
	UndefinedRuleLHS:       "UndefinedRuleLHS",
	RepeatedTerminalRule:   "RepeatedTerminalRule",
	IncorrectTranslation:   "IncorrectTranslation",
	NegativeCost:           "NegativeCost",
	IncorrectSymbolNumber:  "IncorrectSymbolNumber",
	RepeatedSymbolCode:     "RepeatedSymbolCode",
	GrammarAlreadyRead:     "GrammarAlreadyRead",
	DescriptionParseError:  "DescriptionParseError",
	InvalidTokenCode:       "InvalidTokenCode",
	ParseError:             "ParseError",
}

// String renders the symbolic name of an error code, e.g. "UndefinedSymbol".
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Error is the concrete error type returned by Grammar and Parser
// operations. It carries a stable Code alongside a human-readable
// message, per spec §7's propagation policy: construction errors are
// returned at the call that introduced the offense, preparation errors
// from Prepare, and parse errors from Parse.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	err := &Error{Code: code, Message: fmt.Sprintf(format, args...)}
	recordError(err)
	return err
}

// NewError constructs an *Error and records it in the package-level
// diagnostic slot (LastErrorCode/LastErrorMessage). Other packages of
// this module (grammar, earley, description) call this rather than building
// *Error literals directly, so that every fallible operation updates the
// same diagnostic slot regardless of which layer detected it.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return newError(code, format, args...)
}

// diagnostics is the diagnostic slot of spec §5/§7: updated only when an
// error actually occurs, read back by LastErrorCode and LastErrorMessage.
// It is one process-wide, mutex-guarded slot, not per goroutine: an error
// recorded on any goroutine replaces the one seen by every other.
type diagnostics struct {
	mu   sync.Mutex
	code ErrorCode
	msg  string
}

var lastDiag diagnostics

func recordError(err *Error) {
	lastDiag.mu.Lock()
	defer lastDiag.mu.Unlock()
	lastDiag.code = err.Code
	lastDiag.msg = err.Message
}

// LastErrorCode returns the code of the most recently recorded error,
// across grammar construction and parsing.
func LastErrorCode() ErrorCode {
	lastDiag.mu.Lock()
	defer lastDiag.mu.Unlock()
	return lastDiag.code
}

// LastErrorMessage returns the message of the most recently recorded
// error, across grammar construction and parsing.
func LastErrorMessage() string {
	lastDiag.mu.Lock()
	defer lastDiag.mu.Unlock()
	return lastDiag.msg
}
