package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxRequestBodyBytes caps request bodies at 1 MiB.
const MaxRequestBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON for a missing body.
var ErrEmptyBody = errors.New("request body is empty")

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON reads exactly one JSON value from the body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodyBytes))
	switch err := dec.Decode(v); {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case err != nil:
		return err
	case dec.More():
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// selfValidator is implemented by requests with rules struct tags cannot express.
type selfValidator interface {
	Validate() error
}

// ValidateRequest runs v's own Validate method when it has one and the
// struct tag rules otherwise.
func ValidateRequest(v any) error {
	if sv, ok := v.(selfValidator); ok {
		return sv.Validate()
	}
	return validate.Struct(v)
}
