package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// carry copies the cookies set on rec into a fresh request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			r.AddCookie(c)
		}
	}
	return r
}

func TestAddAndPop(t *testing.T) {
	s := NewStore("secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := s.Add(rec, req, Success, "User successfully created!"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(rec, req, Warning, "second"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	n := 0
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			n++
		}
	}
	if n != 1 {
		t.Errorf("response sets %d flash cookies, want 1", n)
	}

	next := carry(rec)
	popRec := httptest.NewRecorder()
	msgs := s.Pop(popRec, next)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %v", len(msgs), msgs)
	}
	if msgs[0] != (Message{Category: Success, Text: "User successfully created!"}) {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Text != "second" {
		t.Errorf("msgs[1] = %+v", msgs[1])
	}

	cleared := false
	for _, c := range popRec.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Pop did not clear the cookie")
	}
}

func TestPopWithoutCookie(t *testing.T) {
	s := NewStore("secret")
	rec := httptest.NewRecorder()
	if msgs := s.Pop(rec, httptest.NewRequest(http.MethodGet, "/", nil)); msgs != nil {
		t.Errorf("msgs = %v, want nil", msgs)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("Pop without a cookie should not set one")
	}
}

func TestTamperedCookieIgnored(t *testing.T) {
	signer := NewStore("secret")
	rec := httptest.NewRecorder()
	signer.Add(rec, httptest.NewRequest(http.MethodGet, "/", nil), Danger, "<script>")

	other := NewStore("different-secret")
	if msgs := other.Pop(httptest.NewRecorder(), carry(rec)); msgs != nil {
		t.Errorf("cookie signed with another key accepted: %v", msgs)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-token"})
	if msgs := signer.Pop(httptest.NewRecorder(), r); msgs != nil {
		t.Errorf("garbage cookie accepted: %v", msgs)
	}
}
