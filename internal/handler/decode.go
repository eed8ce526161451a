package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// Field messages shared by every request record.
const (
	msgRequired     = "This field is required."
	msgNull         = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgNotString    = "Not a valid string."
	msgDate         = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgTime         = "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
	msgNumber       = "A valid number is required."
	msgDecimalPlace = "Ensure that there are no more than 2 decimal places."
	msgBoolean      = "Must be a valid boolean."
	msgEmail        = "Enter a valid email address."
)

// requestUser returns the authenticated caller's id.
func requestUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, errUnauthenticated
	}
	return id, nil
}

// pathUUID binds a UUID path parameter the way generated oapi-codegen
// servers do.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, badRequest(fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// queryInt binds an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, badRequest(fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return v, nil
}

// queryString binds an optional string query parameter.
func queryString(r *http.Request, name string) (*string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, badRequest(fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return v, nil
}

// decodeBody reads a JSON object from the request into dst. An empty body is
// treated as {} so that missing fields surface as per-field errors.
// Unknown keys, including read-only ones, are ignored.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "" {
			return badRequest("Invalid data. Expected a JSON object.")
		}
		return badRequest("JSON parse error - " + err.Error())
	}
	return nil
}

// fieldReader converts raw JSON field values into domain values, recording a
// message on errs for every field that is missing or malformed.
// Each method returns the zero value when it records an error.
type fieldReader struct {
	errs *domain.ValidationError
}

func newFieldReader() fieldReader {
	return fieldReader{errs: domain.NewValidationError()}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// present reports whether a required field has a non-null value, recording
// the appropriate message when it does not.
func (f fieldReader) present(name string, raw json.RawMessage) bool {
	switch {
	case len(raw) == 0:
		f.errs.Add(name, msgRequired)
		return false
	case isNull(raw):
		f.errs.Add(name, msgNull)
		return false
	}
	return true
}

func (f fieldReader) str(name string, raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		f.errs.Add(name, msgNotString)
		return "", false
	}
	return s, true
}

// requiredString reads a non-blank string of at most maxLen characters.
// maxLen <= 0 means unbounded.
func (f fieldReader) requiredString(name string, raw json.RawMessage, maxLen int) string {
	if !f.present(name, raw) {
		return ""
	}
	s, ok := f.str(name, raw)
	if !ok {
		return ""
	}
	if strings.TrimSpace(s) == "" {
		f.errs.Add(name, msgBlank)
		return ""
	}
	if maxLen > 0 && utf8.RuneCountInString(strings.TrimSpace(s)) > maxLen {
		f.errs.Add(name, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
		return ""
	}
	return s
}

// optionalString reads a string that may be absent, null, or blank.
func (f fieldReader) optionalString(name string, raw json.RawMessage) *string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	s, ok := f.str(name, raw)
	if !ok {
		return nil
	}
	return &s
}

// requiredDate reads a "YYYY-MM-DD" calendar date.
func (f fieldReader) requiredDate(name string, raw json.RawMessage) time.Time {
	if !f.present(name, raw) {
		return time.Time{}
	}
	var d openapi_types.Date
	if err := d.UnmarshalJSON(raw); err != nil {
		f.errs.Add(name, msgDate)
		return time.Time{}
	}
	return d.Time
}

// optionalClock reads an "HH:MM" or "HH:MM:SS" time of day, or null.
func (f fieldReader) optionalClock(name string, raw json.RawMessage) *string {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	s, ok := f.str(name, raw)
	if !ok {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	clock, err := domain.ParseClock(strings.TrimSpace(s))
	if err != nil {
		f.errs.Add(name, msgTime)
		return nil
	}
	return &clock
}

// money reads a decimal given as a JSON number or a numeric string.
func (f fieldReader) money(name string, raw json.RawMessage) (domain.Money, bool) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			f.errs.Add(name, msgNumber)
			return 0, false
		}
		text = s
	}
	m, err := domain.ParseMoney(text)
	if err != nil {
		if errors.Is(err, domain.ErrMoneyPrecision) {
			f.errs.Add(name, msgDecimalPlace)
		} else {
			f.errs.Add(name, msgNumber)
		}
		return 0, false
	}
	return m, true
}

func (f fieldReader) requiredMoney(name string, raw json.RawMessage) domain.Money {
	if !f.present(name, raw) {
		return 0
	}
	m, _ := f.money(name, raw)
	return m
}

func (f fieldReader) optionalMoney(name string, raw json.RawMessage) *domain.Money {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	if s, err := unquote(raw); err == nil && strings.TrimSpace(s) == "" {
		return nil
	}
	m, ok := f.money(name, raw)
	if !ok {
		return nil
	}
	return &m
}

// unquote decodes raw if it is a JSON string.
func unquote(raw json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(raw, &s)
	return s, err
}

// requiredBool accepts JSON booleans and the usual textual and numeric
// spellings ("true", "False", 1, "0", ...).
func (f fieldReader) requiredBool(name string, raw json.RawMessage) bool {
	if !f.present(name, raw) {
		return false
	}
	text := strings.TrimSpace(string(raw))
	if s, err := unquote(raw); err == nil {
		text = strings.TrimSpace(s)
	}
	switch strings.ToLower(text) {
	case "true", "1", "t", "y", "yes", "on":
		return true
	case "false", "0", "f", "n", "no", "off":
		return false
	}
	f.errs.Add(name, msgBoolean)
	return false
}

// requiredPK reads a UUID primary key reference.
func (f fieldReader) requiredPK(name string, raw json.RawMessage) uuid.UUID {
	if !f.present(name, raw) {
		return uuid.Nil
	}
	s, err := unquote(raw)
	if err != nil {
		f.errs.Add(name, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", jsonKind(raw)))
		return uuid.Nil
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		f.errs.Add(name, fmt.Sprintf("%q is not a valid UUID.", s))
		return uuid.Nil
	}
	return id
}

// requiredEmail reads a syntactically valid email address using the
// oapi-codegen email format check.
func (f fieldReader) requiredEmail(name string, raw json.RawMessage) string {
	if !f.present(name, raw) {
		return ""
	}
	s, ok := f.str(name, raw)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		f.errs.Add(name, msgBlank)
		return ""
	}
	quoted, _ := json.Marshal(s)
	var e openapi_types.Email
	if err := e.UnmarshalJSON(quoted); err != nil {
		f.errs.Add(name, msgEmail)
		return ""
	}
	return string(e)
}

// jsonKind names the JSON type of raw for error messages.
func jsonKind(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "true" || text == "false":
		return "bool"
	case strings.HasPrefix(text, "{"):
		return "dict"
	case strings.HasPrefix(text, "["):
		return "list"
	case strings.HasPrefix(text, `"`):
		return "str"
	}
	return "int"
}
