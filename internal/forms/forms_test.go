package forms

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func postRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestDecodeRegisterForm(t *testing.T) {
	r := postRequest(url.Values{
		"username":         {"  alice  "},
		"first_name":       {"Alice"},
		"last_name":        {"Liddell"},
		"password":         {" secret pass "},
		"confirm_password": {" secret pass "},
		"unknown":          {"ignored"},
	})

	var f RegisterForm
	if err := Decode(r, &f); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Username != "alice" {
		t.Errorf("username not trimmed: %q", f.Username)
	}
	if f.Password != " secret pass " {
		t.Errorf("password must not be trimmed: %q", f.Password)
	}
}

func TestDecodeRegisterFormErrors(t *testing.T) {
	r := postRequest(url.Values{
		"username":         {"a b"},
		"first_name":       {""},
		"last_name":        {"L"},
		"password":         {"short"},
		"confirm_password": {"other"},
	})

	var f RegisterForm
	err := Decode(r, &f)
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want Errors", err)
	}
	for _, field := range []string{"username", "first_name", "password", "confirm_password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for %s in %v", field, errs)
		}
	}
	if errs["first_name"] != "This field is required" {
		t.Errorf("first_name message = %q", errs["first_name"])
	}
	if errs["confirm_password"] != "Passwords must match" {
		t.Errorf("confirm_password message = %q", errs["confirm_password"])
	}
	if _, ok := errs["last_name"]; ok {
		t.Error("last_name should be valid")
	}
}

func TestDecodeLoginFormRequired(t *testing.T) {
	var f LoginForm
	err := Decode(postRequest(url.Values{"username": {"   "}}), &f)
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v, want Errors", err)
	}
	if len(errs) != 2 {
		t.Errorf("errors = %v, want username and password", errs)
	}
}

func TestDecodeProfileForm(t *testing.T) {
	var f ProfileForm
	err := Decode(postRequest(url.Values{
		"education": {"NTNU"},
		"birthday":  {"1999-12-31"},
	}), &f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p := f.Profile()
	if p.Education != "NTNU" || p.Birthday != "1999-12-31" || p.Music != "" {
		t.Errorf("profile = %+v", p)
	}

	var bad ProfileForm
	err = Decode(postRequest(url.Values{"birthday": {"31/12/1999"}}), &bad)
	var errs Errors
	if !errors.As(err, &errs) || errs["birthday"] == "" {
		t.Errorf("expected birthday error, got %v", err)
	}
}

func TestErrorsString(t *testing.T) {
	errs := Errors{"b": "second", "a": "first"}
	if got := errs.Error(); got != "a: first; b: second" {
		t.Errorf("Error() = %q", got)
	}
	if !errs.HasErrors() || (Errors{}).HasErrors() {
		t.Error("HasErrors mismatch")
	}
}
