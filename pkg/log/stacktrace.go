package log

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	// ErrAttrKey holds the error message of a record.
	ErrAttrKey = "error"
	// StacktraceAttrKey holds the stack captured by cockroachdb/errors.
	StacktraceAttrKey = "error.stacktrace"
	// ErrDetailAttrKey holds the structured fields of a typed error.
	ErrDetailAttrKey = "error.detail"
)

// appendError attaches err, its structured detail and its stack to ev.
func appendError(ev *zerolog.Event, key string, err error) *zerolog.Event {
	ev = ev.Str(key, err.Error())

	var detail zerolog.LogObjectMarshaler
	if errors.As(err, &detail) {
		ev = ev.Object(ErrDetailAttrKey, detail)
	}
	if stack := extractStacktrace(err); stack != "" {
		ev = ev.Str(StacktraceAttrKey, stack)
	}
	return ev
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
