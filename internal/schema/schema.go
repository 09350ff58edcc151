// Package schema decodes and validates request bodies for the user and ad
// endpoints.
//
// Decoding is field-by-field so that every offending field is reported in one
// response. Type errors are detected while decoding; length and range
// constraints are declared as validator struct tags and checked afterwards.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"github.com/adboard/adboard/internal/model"
)

// CreateUser is the body of POST /user/.
type CreateUser struct {
	Name     string `json:"name" validate:"min=1,max=120"`
	Password string `json:"password" validate:"password,maxbytes=72"`
}

// UpdateUser is the body of PATCH /user/{id}/. Absent fields are nil.
type UpdateUser struct {
	Name     *string `json:"name" validate:"min=1,max=120"`
	Password *string `json:"password" validate:"password,maxbytes=72"`
}

// Login is the body of POST /user/login/.
type Login struct {
	Name     string `json:"name" validate:"min=1,max=120"`
	Password string `json:"password" validate:"min=1,maxbytes=72"`
}

// CreateAd is the body of POST /ads/.
type CreateAd struct {
	Header  string `json:"header" validate:"min=1,max=64"`
	Text    string `json:"text" validate:"max=256"`
	Price   int64  `json:"price" validate:"min=-2147483648,max=2147483647"`
	OwnerID int64  `json:"owner_id" validate:"min=1,max=2147483647"`
}

// UpdateAd is the body of PATCH /ads/{id}/. Absent fields are nil.
type UpdateAd struct {
	Header  *string `json:"header" validate:"min=1,max=64"`
	Text    *string `json:"text" validate:"max=256"`
	Price   *int64  `json:"price" validate:"min=-2147483648,max=2147483647"`
	OwnerID *int64  `json:"owner_id" validate:"min=1,max=2147483647"`
}

// Target is implemented by every request schema.
type Target interface {
	decodeFields(d *decoder)
}

func (s *CreateUser) decodeFields(d *decoder) {
	s.Name, _ = d.str("name", true)
	s.Password, _ = d.str("password", true)
}

func (s *UpdateUser) decodeFields(d *decoder) {
	s.Name = optional(d.str("name", false))
	s.Password = optional(d.str("password", false))
}

func (s *Login) decodeFields(d *decoder) {
	s.Name, _ = d.str("name", true)
	s.Password, _ = d.str("password", true)
}

func (s *CreateAd) decodeFields(d *decoder) {
	s.Header, _ = d.str("header", true)
	s.Text, _ = d.str("text", true)
	s.Price, _ = d.integer("price", true)
	s.OwnerID, _ = d.integer("owner_id", true)
}

func (s *UpdateAd) decodeFields(d *decoder) {
	s.Header = optional(d.str("header", false))
	s.Text = optional(d.str("text", false))
	s.Price = optional(d.integer("price", false))
	s.OwnerID = optional(d.integer("owner_id", false))
}

// Patch converts the update into a model patch. The password is not carried:
// it has to be hashed first.
func (s UpdateUser) Patch() model.UserPatch {
	return model.UserPatch{Name: s.Name}
}

// Patch converts the update into a model patch.
func (s UpdateAd) Patch() model.AdPatch {
	return model.AdPatch{
		Header:  s.Header,
		Text:    s.Text,
		Price:   s.Price,
		OwnerID: s.OwnerID,
	}
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

// Fields whose input is never echoed back in an error entry.
var sensitive = map[string]bool{"password": true}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= model.MinPasswordLength
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	}); err != nil {
		panic(err)
	}
	return v
}

// Decode fills dst from body. On failure it returns Errors listing every
// offending field in declaration order.
func Decode(body []byte, dst Target) error {
	d, err := newDecoder(body)
	if err != nil {
		return err
	}

	dst.decodeFields(d)

	if err := validate.StructExcept(dst, absentFields(dst)...); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range verrs {
			if d.failed[fe.Field()] {
				continue
			}
			d.errs = append(d.errs, translate(fe))
		}
	}

	if len(d.errs) == 0 {
		return nil
	}

	order := fieldOrder(dst)
	sort.SliceStable(d.errs, func(i, j int) bool {
		return order[d.errs[i].Loc[0]] < order[d.errs[j].Loc[0]]
	})
	return d.errs
}

// absentFields names the optional fields that were not submitted. They are
// skipped by validation, while a submitted empty value is still checked.
func absentFields(dst Target) []string {
	v := reflect.ValueOf(dst).Elem()
	var absent []string
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.Ptr && f.IsNil() {
			absent = append(absent, v.Type().Field(i).Name)
		}
	}
	return absent
}

func fieldOrder(dst Target) map[string]int {
	t := reflect.TypeOf(dst).Elem()
	order := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		order[name] = i
	}
	return order
}

// translate maps a validator failure onto a FieldError. Validator internals
// such as the struct namespace are dropped.
func translate(fe validator.FieldError) FieldError {
	field := fe.Field()
	var input any = fe.Value()
	if sensitive[field] {
		input = nil
	}

	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "password":
		return fieldError(TypeValue, field, "Value error, password is too short", input)
	case "maxbytes":
		return fieldError(TypeStringTooLong, field, fmt.Sprintf("String should have at most %s bytes", fe.Param()), input)
	case "min":
		if isString {
			return fieldError(TypeStringTooShort, field, fmt.Sprintf("String should have at least %s %s", fe.Param(), plural(fe.Param(), "character")), input)
		}
		return fieldError(TypeGreaterThanEqual, field, "Input should be greater than or equal to "+fe.Param(), input)
	case "max":
		if isString {
			return fieldError(TypeStringTooLong, field, fmt.Sprintf("String should have at most %s %s", fe.Param(), plural(fe.Param(), "character")), input)
		}
		return fieldError(TypeLessThanEqual, field, "Input should be less than or equal to "+fe.Param(), input)
	default:
		return fieldError(TypeValue, field, "Value error, invalid value", input)
	}
}

func plural(n, word string) string {
	if n == "1" {
		return word
	}
	return word + "s"
}
