// Package bind decodes request payloads and checks them with struct tags
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// ValidatorSvc pairs the shared validator with its english translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *ValidatorSvc

	// seam
	trailing = func(dec *json.Decoder) bool { return dec.More() }
)

// Get returns the shared validator, building it on first use
func Get() *ValidatorSvc {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		short(v, trans, "min", "{0} must be at least {1}", true)
		short(v, trans, "max", "{0} must be at most {1}", true)
		short(v, trans, "gt", "{0} must be greater than {1}", true)

		_ = v.RegisterValidation("fragment", isFragment)
		short(v, trans, "fragment", "{0} must be a #-prefixed fragment without spaces", false)

		svc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates v and returns the first failure as a validation error
// carrying the offending field name
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Named("bind").Error().Err(inv).Msg("validator misuse")
		return perr.Internalf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// jsonName reports the json key for a struct field so messages read like the payload
func jsonName(fld reflect.StructField) string {
	tag, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	return tag
}

func isFragment(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.HasPrefix(s, "#") && !strings.ContainsAny(s, " \t\r\n")
}

func short(v *validator.Validate, trans ut.Translator, tag, text string, withParam bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			params := []string{fe.Field()}
			if withParam {
				params = append(params, fe.Param())
			}
			msg, _ := t.T(tag, params...)
			return msg
		},
	)
}

// JSONOptions controls how request bodies are read
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaults() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes one JSON value into T and validates it. An empty body is a
// JSON error unless AllowEmptyBody is set or the method is safe.
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaults()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Named("bind").Warn().Err(err).Msg("close request body")
		}
	}()

	body, empty := peek(r.Body)
	if empty && !o.AllowEmptyBody {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		if empty && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if trailing(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// peek reads one byte to tell an empty body apart, then stitches it back
func peek(body io.Reader) (io.Reader, bool) {
	buf := make([]byte, 1)
	n, _ := body.Read(buf)
	if n == 0 {
		return body, true
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), body), false
}

// ValidationFieldAndMessage returns the first failing field and its
// translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator)
	}
	return "", err.Error()
}
