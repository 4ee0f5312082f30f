package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique identifier for specific error conditions in Hierarch.
type ErrorCode int

const (
	ErrCodeUnknown       ErrorCode = 1000
	ErrCodeConfigInvalid ErrorCode = 1001
	ErrCodeUnknownEvent  ErrorCode = 1002

	// Build: the hierarchy handed to the builder is malformed
	ErrCodeDanglingParent   ErrorCode = 2001
	ErrCodeMultipleTopState ErrorCode = 2002
	ErrCodeDuplicateState   ErrorCode = 2003
	ErrCodeInvalidStateID   ErrorCode = 2004
	ErrCodeNotAState        ErrorCode = 2005
	ErrCodeAlreadyDelegated ErrorCode = 2006
	ErrCodeTopHasParent     ErrorCode = 2007
	ErrCodeMultipleParents  ErrorCode = 2008
	ErrCodeMissingTopState  ErrorCode = 2009
	ErrCodeParentCycle      ErrorCode = 2010

	// Runtime: the engine was used incorrectly
	ErrCodeEngineNotInitialized          ErrorCode = 3001
	ErrCodeAlreadyInitialized            ErrorCode = 3002
	ErrCodeDelegateNotConnected          ErrorCode = 3003
	ErrCodeMultipleConcurrentChangeState ErrorCode = 3004
	ErrCodeCascadeLimit                  ErrorCode = 3005
	ErrCodeEngineStopped                 ErrorCode = 3006
	ErrCodeRequestOutsideDispatch        ErrorCode = 3007

	// Graph: internal invariants of the hierarchy were violated
	ErrCodeImpossibleStateMismatch ErrorCode = 4001
	ErrCodeLCAOfSameNode           ErrorCode = 4002
	ErrCodeTransitionToTop         ErrorCode = 4003
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                       "Unknown",
	ErrCodeConfigInvalid:                 "ConfigInvalid",
	ErrCodeUnknownEvent:                  "UnknownEvent",
	ErrCodeDanglingParent:                "DanglingParent",
	ErrCodeMultipleTopState:              "MultipleTopState",
	ErrCodeDuplicateState:                "DuplicateState",
	ErrCodeInvalidStateID:                "InvalidStateId",
	ErrCodeNotAState:                     "NotAState",
	ErrCodeAlreadyDelegated:              "AlreadyDelegated",
	ErrCodeTopHasParent:                  "TopHasParent",
	ErrCodeMultipleParents:               "MultipleParents",
	ErrCodeMissingTopState:               "MissingTopState",
	ErrCodeParentCycle:                   "ParentCycle",
	ErrCodeEngineNotInitialized:          "EngineNotInitialized",
	ErrCodeAlreadyInitialized:            "AlreadyInitialized",
	ErrCodeDelegateNotConnected:          "DelegateNotConnected",
	ErrCodeMultipleConcurrentChangeState: "MultipleConcurrentChangeState",
	ErrCodeCascadeLimit:                  "CascadeLimit",
	ErrCodeEngineStopped:                 "EngineStopped",
	ErrCodeRequestOutsideDispatch:        "RequestOutsideDispatch",
	ErrCodeImpossibleStateMismatch:       "ImpossibleStateMismatch",
	ErrCodeLCAOfSameNode:                 "LCAOfSameNode",
	ErrCodeTransitionToTop:               "TransitionToTop",
}

// String returns the symbolic name of the code, used as a metrics label.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// HierarchError is a custom error type that provides structured error information,
// including an error code, the operation being performed, and the underlying cause.
type HierarchError struct {
	// Code is the specific error code.
	Code ErrorCode
	// Msg is a human-readable description of the error.
	Msg string
	// Operation describes the action being performed when the error occurred.
	Operation string
	// Err is the underlying error that caused this error, if any.
	Err error
}

// Error returns a formatted string representation of the error.
func (e *HierarchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %s (cause: %v)", e.Code, e.Operation, e.Msg, e.Err)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Operation, e.Msg)
}

// Unwrap returns the underlying error.
func (e *HierarchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a HierarchError carrying the same code.
// Operation and message are ignored so the exported sentinels below match
// any error of their kind.
func (e *HierarchError) Is(target error) bool {
	t, ok := target.(*HierarchError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new HierarchError with the specified code, operation, message, and underlying error.
func New(code ErrorCode, op, msg string, err error) error {
	return &HierarchError{
		Code:      code,
		Msg:       msg,
		Operation: op,
		Err:       err,
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, op, format string, args ...any) error {
	return New(code, op, fmt.Sprintf(format, args...), nil)
}

// CodeOf returns the code of the first HierarchError in err's chain,
// or ErrCodeUnknown when there is none.
func CodeOf(err error) ErrorCode {
	var he *HierarchError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return ErrCodeUnknown
}

// HasCode reports whether err's chain contains a HierarchError with code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &HierarchError{Code: code})
}

// Sentinels for errors.Is comparisons.
var (
	ErrEngineNotInitialized          = &HierarchError{Code: ErrCodeEngineNotInitialized}
	ErrDelegateNotConnected          = &HierarchError{Code: ErrCodeDelegateNotConnected}
	ErrMultipleConcurrentChangeState = &HierarchError{Code: ErrCodeMultipleConcurrentChangeState}
	ErrInvalidStateID                = &HierarchError{Code: ErrCodeInvalidStateID}
	ErrCascadeLimit                  = &HierarchError{Code: ErrCodeCascadeLimit}
	ErrEngineStopped                 = &HierarchError{Code: ErrCodeEngineStopped}
	ErrRequestOutsideDispatch        = &HierarchError{Code: ErrCodeRequestOutsideDispatch}
)

// Personal.AI order the ending
