// Package forms decodes submitted HTML forms into typed structs and validates them.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"social/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	return v
}

// Errors maps a form field name to a message for the user.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	e[field] = message
}

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Error joins the messages in field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(e))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return strings.Join(msgs, "; ")
}

// Decode fills dst from the request's POST form and validates it.
// Validation problems are returned as Errors.
func Decode(r *http.Request, dst any) error {
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			return Errors{"form": "Could not read the submitted form"}
		}
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return Errors{"form": "Could not read the submitted form"}
	}
	trimStrings(dst)
	return Validate(dst)
}

// Validate runs the struct's validate tags.
func Validate(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make(Errors)
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "eqfield":
		return "Passwords must match"
	case "username":
		return "Only letters, digits, '.', '_' and '-' are allowed"
	case "datetime":
		return "Use the format YYYY-MM-DD"
	}
	return "Invalid value"
}

// trimStrings trims surrounding whitespace from string fields not tagged forms:"notrim".
func trimStrings(dst any) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() || t.Field(i).Tag.Get("forms") == "notrim" {
			continue
		}
		f.SetString(strings.TrimSpace(f.String()))
	}
}

// LoginForm is the login half of the index page.
type LoginForm struct {
	Username string `schema:"username" validate:"required,max=32"`
	Password string `schema:"password" validate:"required,max=72" forms:"notrim"`
}

// RegisterForm is the registration half of the index page.
type RegisterForm struct {
	Username        string `schema:"username" validate:"required,min=3,max=32,username"`
	FirstName       string `schema:"first_name" validate:"required,max=64"`
	LastName        string `schema:"last_name" validate:"required,max=64"`
	Password        string `schema:"password" validate:"required,min=8,max=72" forms:"notrim"`
	ConfirmPassword string `schema:"confirm_password" validate:"required,eqfield=Password" forms:"notrim"`
}

// PostForm carries the text of a new post; the image travels as a multipart file.
type PostForm struct {
	Content string `schema:"content" validate:"required,max=5000"`
}

type CommentForm struct {
	Comment string `schema:"comment" validate:"required,max=1000"`
}

type FriendForm struct {
	Username string `schema:"username" validate:"required,max=32"`
}

type ProfileForm struct {
	Education   string `schema:"education" validate:"max=256"`
	Employment  string `schema:"employment" validate:"max=256"`
	Music       string `schema:"music" validate:"max=256"`
	Movie       string `schema:"movie" validate:"max=256"`
	Nationality string `schema:"nationality" validate:"max=64"`
	Birthday    string `schema:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

// Profile converts the form into the stored profile fields.
func (f *ProfileForm) Profile() models.Profile {
	return models.Profile{
		Education:   f.Education,
		Employment:  f.Employment,
		Music:       f.Music,
		Movie:       f.Movie,
		Nationality: f.Nationality,
		Birthday:    f.Birthday,
	}
}
