// Package errors wraps github.com/pkg/errors with the taxonomy the engine
// uses to tell fatal conditions (halt the run) from recoverable ones
// (recorded as a rejected fill, run continues).
package errors

import (
	"bytes"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Severity distinguishes the two error classes the core recognizes.
type Severity string

const (
	// SeverityFatal halts the run with a non-zero exit code.
	SeverityFatal Severity = "fatal"
	// SeverityRecoverable is recorded as a rejected fill; the run continues.
	SeverityRecoverable Severity = "recoverable"
)

// Category narrows a fatal or recoverable error to the component that raised it.
type Category string

const (
	CategorySequencing Category = "sequencing"
	CategoryAccounting Category = "accounting"
	CategoryLifecycle  Category = "lifecycle"
	CategoryRules      Category = "rules"
	CategoryRisk       Category = "risk"
	CategoryMatching   Category = "matching"
	CategoryConfig     Category = "config"
	CategoryIngest     Category = "ingest"
)

// Detail carries structured context about a single fault: which component,
// which order, and any extra key/values needed to reconstruct why it fired
// without re-parsing a log line.
type Detail struct {
	Component string
	OrderID   int64
	Extra     map[string]interface{}
}

// CoreError is the error type raised by engine components for fatal
// conditions, which propagate out of the scheduler's tick loop. Recoverable
// conditions (rules, risk and matching rejects) are reported as a rejected
// Fill with a RejectReason, not as a CoreError.
type CoreError struct {
	Severity Severity
	Category Category
	Detail   Detail
	cause    error
}

// New creates a CoreError wrapping msg with a captured stack trace.
func New(severity Severity, category Category, detail Detail, msg string) *CoreError {
	return &CoreError{
		Severity: severity,
		Category: category,
		Detail:   detail,
		cause:    pkgerrors.New(msg),
	}
}

// Wrap attaches severity/category/detail to an existing error, preserving
// its stack trace if it already has one.
func Wrap(severity Severity, category Category, detail Detail, err error) *CoreError {
	if _, ok := err.(StackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	return &CoreError{
		Severity: severity,
		Category: category,
		Detail:   detail,
		cause:    err,
	}
}

func (e *CoreError) Error() string {
	buf := bytes.NewBufferString("")
	fmt.Fprintf(buf, "[%s/%s]", e.Severity, e.Category)
	if e.Detail.Component != "" {
		fmt.Fprintf(buf, " component=%s", e.Detail.Component)
	}
	if e.Detail.OrderID != 0 {
		fmt.Fprintf(buf, " order_id=%d", e.Detail.OrderID)
	}
	fmt.Fprintf(buf, ": %s", e.cause.Error())
	return buf.String()
}

func (e *CoreError) Unwrap() error {
	return e.cause
}

// IsFatal reports whether err is a CoreError with fatal severity.
func IsFatal(err error) bool {
	ce, ok := err.(*CoreError)
	return ok && ce.Severity == SeverityFatal
}

// StackTracer is implemented by github.com/pkg/errors error values; the
// logger checks for it to render a stack trace on fatal errors.
type StackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// StackTrace implements StackTracer by delegating to the wrapped cause.
func (e *CoreError) StackTrace() pkgerrors.StackTrace {
	if tracer, ok := e.cause.(StackTracer); ok {
		return tracer.StackTrace()
	}
	return nil
}
