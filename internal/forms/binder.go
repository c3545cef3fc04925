// Package forms turns submitted HTML forms into sanitized, validated structs.
//
// Every form struct goes through the same pipeline: decode (gorilla/schema,
// `form` tag), sanitize (mold, `mod` tag), validate (validator, `validate`
// tag). Validation failures are not Go errors; they come back as an ordered
// list so the form can be rendered again with every message at once.
package forms

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// FieldError is one failed rule, addressed by form field name.
type FieldError struct {
	Field   string
	Message string
}

// Errors keeps failures in the order the fields are declared.
type Errors []FieldError

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the error messages in order.
func (e Errors) Messages() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.Message
	}
	return out
}

// Binder decodes, sanitizes and validates form submissions.
type Binder struct {
	decoder  *schema.Decoder
	conform  *mold.Transformer
	validate *validator.Validate
}

// NewBinder creates a Binder with the catalog's custom rules registered.
func NewBinder() *Binder {
	decoder := schema.NewDecoder()
	decoder.SetAliasTag("form")
	// Hidden inputs such as the CSRF token are not part of the form structs.
	decoder.IgnoreUnknownKeys(true)

	conform := modifiers.New()
	conform.Register("escape", escapeModifier)

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("isodate", isoDateValidator)

	return &Binder{decoder: decoder, conform: conform, validate: validate}
}

// BindRequest binds the request's POST body into dst.
func (b *Binder) BindRequest(r *http.Request, dst any) (Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return b.Bind(r.Context(), r.PostForm, dst)
}

// Bind runs the pipeline over values. A non-nil error means the input could
// not be processed at all; rule failures are returned as Errors.
func (b *Binder) Bind(ctx context.Context, values url.Values, dst any) (Errors, error) {
	if err := b.decoder.Decode(dst, values); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}

	if err := b.conform.Struct(ctx, dst); err != nil {
		return nil, fmt.Errorf("sanitize form: %w", err)
	}

	err := b.validate.StructCtx(ctx, dst)
	if err == nil {
		return nil, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, fmt.Errorf("validate form: %w", err)
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(t, fe)})
	}
	return out, nil
}

// messageFor prefers the field's `msg` tag over a generic message.
func messageFor(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if msg := sf.Tag.Get("msg"); msg != "" {
			return msg
		}
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "isodate":
		return "Invalid date"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// escapeModifier replaces HTML-significant characters with entities.
func escapeModifier(_ context.Context, fl mold.FieldLevel) error {
	if fl.Field().Kind() == reflect.String {
		fl.Field().SetString(html.EscapeString(fl.Field().String()))
	}
	return nil
}
