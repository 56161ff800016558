package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Logo", "my-logo"},
		{"Company   Report (final).v2", "company-report-final-v2"},
		{"résumé", "r-sum"},
		{"---", ""},
		{"UPPER", "upper"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUniqueFilename(t *testing.T) {
	name := UniqueFilename("My Logo.PNG", PartnerLogos)
	if !strings.HasPrefix(name, "my-logo-") {
		t.Fatalf("unexpected slug in %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("extension not kept in %q", name)
	}

	// Empty slug falls back to the category default, missing extension too.
	name = UniqueFilename("###", PartnerLogos)
	if !strings.HasPrefix(name, "logo-") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("defaults not applied in %q", name)
	}
}

func TestSaveStoresFileAndReturnsPublicPath(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root, "")

	fh := newFileHeader(t, "logo.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	path, err := saver.Save(context.Background(), fh, PartnerLogos)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasPrefix(path, "/uploads/partners/") {
		t.Fatalf("unexpected public path %q", path)
	}
	onDisk := filepath.Join(root, "partners", strings.TrimPrefix(path, "/uploads/partners/"))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestSaveProducesDistinctNamesForSameFilename(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root, "")

	first, err := saver.Save(context.Background(), newFileHeader(t, "logo.png", "image/png", []byte("a")), PartnerLogos)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := saver.Save(context.Background(), newFileHeader(t, "logo.png", "image/png", []byte("b")), PartnerLogos)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if first == second {
		t.Fatalf("both uploads stored as %q", first)
	}
	if got := dirEntries(t, filepath.Join(root, "partners")); len(got) != 2 {
		t.Fatalf("expected 2 stored files, got %v", got)
	}
}

func TestSaveRejectsDisallowedContentType(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root, "")

	fh := newFileHeader(t, "archive.zip", "application/zip", []byte("PK"))
	_, err := saver.Save(context.Background(), fh, NewsImages)

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if got := dirEntries(t, filepath.Join(root, "news")); len(got) != 0 {
		t.Fatalf("rejected upload left files behind: %v", got)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root, "")

	cat := PartnerLogos
	cat.MaxSize = 4

	fh := newFileHeader(t, "logo.png", "image/png", []byte("12345"))
	_, err := saver.Save(context.Background(), fh, cat)

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if got := dirEntries(t, filepath.Join(root, "partners")); len(got) != 0 {
		t.Fatalf("rejected upload left files behind: %v", got)
	}
}

func TestSaveAllKeepsOrderAndRejectsBeforeWriting(t *testing.T) {
	root := t.TempDir()
	saver := NewSaver(root, "")

	files := []*multipart.FileHeader{
		newFileHeader(t, "First Image.jpg", "image/jpeg", []byte("1")),
		newFileHeader(t, "second.png", "image/png", []byte("2")),
	}
	paths, err := saver.SaveAll(context.Background(), files, NewsImages)
	if err != nil {
		t.Fatalf("save all: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
	if !strings.Contains(paths[0], "first-image-") || !strings.Contains(paths[1], "second-") {
		t.Fatalf("paths out of order: %v", paths)
	}

	// One bad file rejects the whole batch and nothing new is written.
	before := dirEntries(t, filepath.Join(root, "news"))
	files = append(files, newFileHeader(t, "bad.zip", "application/zip", []byte("PK")))
	if _, err := saver.SaveAll(context.Background(), files, NewsImages); err == nil {
		t.Fatal("expected batch rejection")
	}
	after := dirEntries(t, filepath.Join(root, "news"))
	if len(after) != len(before) {
		t.Fatalf("rejected batch changed directory contents: before %v after %v", before, after)
	}
}

func TestSaveAllEnforcesMaxFiles(t *testing.T) {
	saver := NewSaver(t.TempDir(), "")

	files := []*multipart.FileHeader{
		newFileHeader(t, "a.png", "image/png", []byte("a")),
		newFileHeader(t, "b.png", "image/png", []byte("b")),
	}
	if _, err := saver.SaveAll(context.Background(), files, PartnerLogos); err == nil {
		t.Fatal("expected rejection for exceeding max file count")
	}
}
