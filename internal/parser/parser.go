package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atikulmunna/clientlog/internal/model"
)

// Sentinel kinds carried by *Error. Match with errors.Is.
var (
	ErrMalformed    = errors.New("malformed submission")
	ErrMissingField = errors.New("missing required field")
)

// Error describes why a submission body was rejected.
type Error struct {
	Kind  error  // ErrMalformed or ErrMissingField
	Field string // set for ErrMissingField and field type errors
	Err   error  // underlying decode error, if any
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%v: field %q: %v", e.Kind, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%v: %q", e.Kind, e.Field)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// wire mirrors model.Submission with pointers so absent and null fields can be told apart.
type wire struct {
	Level   *string `json:"level"`
	Message *string `json:"message"`
}

// Decode parses a POST /log body into a Submission.
// The body must be exactly one JSON object with string "level" and "message" fields;
// unknown fields are ignored.
func Decode(body []byte) (model.Submission, error) {
	var w wire
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&w); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return model.Submission{}, &Error{Kind: ErrMalformed, Field: typeErr.Field, Err: err}
		}
		return model.Submission{}, &Error{Kind: ErrMalformed, Err: err}
	}
	// Only whitespace may follow the object.
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return model.Submission{}, &Error{Kind: ErrMalformed, Err: errors.New("trailing data after object")}
	}

	if w.Level == nil {
		return model.Submission{}, &Error{Kind: ErrMissingField, Field: "level"}
	}
	if w.Message == nil {
		return model.Submission{}, &Error{Kind: ErrMissingField, Field: "message"}
	}
	return model.Submission{Level: *w.Level, Message: *w.Message}, nil
}

// NormalizeLevel maps common level spellings onto DEBUG, INFO, WARN, ERROR and FATAL.
// It is used for coloring and counting only; stored lines keep the submitted level.
func NormalizeLevel(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FATAL", "CRITICAL", "CRIT":
		return "FATAL"
	case "ERROR", "ERR":
		return "ERROR"
	case "WARN", "WARNING":
		return "WARN"
	case "DEBUG", "TRACE":
		return "DEBUG"
	default:
		return "INFO"
	}
}
