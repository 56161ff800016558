package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestPartnerCRUD(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/partners", map[string]any{
		"name":    "PT Mitra Sejahtera",
		"logoUrl": "/uploads/partners/mitra.png",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := dataObject(t, w)
	id := created["id"].(string)
	if created["logoUrl"] != "/uploads/partners/mitra.png" {
		t.Fatalf("logoUrl = %v", created["logoUrl"])
	}

	w = doJSON(t, router, http.MethodPut, "/api/partners/"+id, map[string]any{
		"name":    "PT Mitra Sejahtera Tbk",
		"logoUrl": "/uploads/partners/mitra-v2.png",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	if got := dataObject(t, w)["name"]; got != "PT Mitra Sejahtera Tbk" {
		t.Fatalf("name = %v", got)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/partners/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["ok"] != true {
		t.Fatalf("delete body = %v", body)
	}

	w = doJSON(t, router, http.MethodGet, "/api/partners/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestPartnerCreateRequiresName(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/partners", map[string]any{
		"logoUrl": "/uploads/partners/x.png",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestPartnerUploadLogoTwiceKeepsBothFiles(t *testing.T) {
	router, _, root := newTestRouter(t)

	upload := func() string {
		w := doMultipart(t, router, "/api/partners/upload-logo", nil, testFile{
			Field:       "file",
			Filename:    "logo.png",
			ContentType: "image/png",
			Content:     []byte("png"),
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		path, _ := decodeBody(t, w)["path"].(string)
		if path == "" {
			t.Fatalf("no path in response: %s", w.Body.String())
		}
		return path
	}

	first := upload()
	second := upload()
	if first == second {
		t.Fatalf("both logos stored as %q", first)
	}

	entries, err := os.ReadDir(filepath.Join(root, "partners"))
	if err != nil {
		t.Fatalf("read partners dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 stored logos, got %d", len(entries))
	}
}
