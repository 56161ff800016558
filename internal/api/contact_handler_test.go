package api

import (
	"net/http"
	"testing"
	"time"
)

func TestContactMessageCreateAndGet(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/contact-messages", map[string]any{
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"subject": "Partnership",
		"message": "Hello there",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	created := dataObject(t, w)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("created message has no id: %v", created)
	}
	date, _ := created["date"].(string)
	if _, err := time.Parse(time.RFC3339, date); err != nil {
		t.Fatalf("date %q is not RFC3339: %v", date, err)
	}

	w = doJSON(t, router, http.MethodGet, "/api/contact-messages/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}
	fetched := dataObject(t, w)
	for _, field := range []string{"name", "email", "subject", "message"} {
		if fetched[field] != created[field] {
			t.Fatalf("field %s: get %v, create %v", field, fetched[field], created[field])
		}
	}
}

func TestContactMessageCreateRejectsMissingField(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/contact-messages", map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "no subject",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["error"] != "subject is required" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestContactMessageUpdateAndDelete(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/contact-messages", map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"subject": "Hi",
		"message": "first",
	})
	id := dataObject(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/contact-messages/"+id, map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"subject": "Hi",
		"message": "second",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	if got := dataObject(t, w)["message"]; got != "second" {
		t.Fatalf("message after update = %v", got)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/contact-messages/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["ok"] != true {
		t.Fatalf("delete body = %v", body)
	}

	w = doJSON(t, router, http.MethodGet, "/api/contact-messages/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}
