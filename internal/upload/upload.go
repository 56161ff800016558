// Package upload stores multipart file uploads on local disk, one
// subdirectory per category, and hands back the public /uploads path.
package upload

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PublicPrefix is the URL prefix under which the upload root is served.
const PublicPrefix = "/uploads"

// Category describes one logical group of uploads: its directory, MIME
// allow-list and limits.
type Category struct {
	Name string
	// Dir is the subdirectory under the upload root.
	Dir string
	// AllowedPrefixes and AllowedTypes together form the MIME allow-list:
	// a content type passes if it has one of the prefixes or equals one of
	// the exact types.
	AllowedPrefixes []string
	AllowedTypes    []string
	MaxSize         int64
	MaxFiles        int
	// DefaultSlug replaces a filename whose slug is empty after stripping.
	DefaultSlug string
	// DefaultExt is appended when the original filename has no extension.
	DefaultExt string
}

const maxUploadSize = 5 * 1024 * 1024

// Upload categories. Directory names mirror the public /uploads tree.
var (
	NewsImages = Category{
		Name:            "news image",
		Dir:             "news",
		AllowedPrefixes: []string{"image/"},
		MaxSize:         maxUploadSize,
		MaxFiles:        10,
		DefaultSlug:     "image",
		DefaultExt:      ".jpg",
	}

	TeamPhotos = Category{
		Name:            "team photo",
		Dir:             "team",
		AllowedPrefixes: []string{"image/"},
		MaxSize:         maxUploadSize,
		MaxFiles:        1,
		DefaultSlug:     "photo",
		DefaultExt:      ".jpg",
	}

	PartnerLogos = Category{
		Name:            "partner logo",
		Dir:             "partners",
		AllowedPrefixes: []string{"image/"},
		MaxSize:         maxUploadSize,
		MaxFiles:        1,
		DefaultSlug:     "logo",
		DefaultExt:      ".png",
	}

	Resumes = Category{
		Name: "resume",
		Dir:  "resumes",
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		MaxSize:     maxUploadSize,
		MaxFiles:    1,
		DefaultSlug: "resume",
		DefaultExt:  ".pdf",
	}
)

// Accepts reports whether the content type passes the category allow-list.
func (c Category) Accepts(contentType string) bool {
	for _, prefix := range c.AllowedPrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	for _, t := range c.AllowedTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// RejectedError marks an upload refused by validation or scanning; handlers
// surface it as a client error rather than a server failure.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

func reject(format string, args ...any) error {
	return &RejectedError{Reason: fmt.Sprintf(format, args...)}
}

// Saver writes uploads under a single root directory.
type Saver struct {
	Root string
	// ClamdAddr enables virus scanning before any byte reaches disk.
	// Empty means scanning is disabled.
	ClamdAddr string
}

// NewSaver returns a Saver rooted at the given directory.
func NewSaver(root, clamdAddr string) *Saver {
	return &Saver{Root: root, ClamdAddr: clamdAddr}
}

// Save validates and stores a single file, returning its public path
// (e.g. "/uploads/partners/acme-logo-1712345678901-123456789.png").
func (s *Saver) Save(ctx context.Context, fh *multipart.FileHeader, cat Category) (string, error) {
	if err := s.validate(fh, cat); err != nil {
		return "", err
	}
	if err := s.scan(ctx, fh); err != nil {
		return "", err
	}
	return s.write(fh, cat)
}

// SaveAll validates every file before any write, then stores them in
// receipt order. On any failure already-written files of this request are
// removed, so a rejected request never leaves orphans behind.
func (s *Saver) SaveAll(ctx context.Context, fhs []*multipart.FileHeader, cat Category) ([]string, error) {
	if len(fhs) == 0 {
		return nil, reject("no file uploaded")
	}
	if cat.MaxFiles > 0 && len(fhs) > cat.MaxFiles {
		return nil, reject("at most %d %s files per request", cat.MaxFiles, cat.Name)
	}

	for _, fh := range fhs {
		if err := s.validate(fh, cat); err != nil {
			return nil, err
		}
	}
	for _, fh := range fhs {
		if err := s.scan(ctx, fh); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(fhs))
	for _, fh := range fhs {
		path, err := s.write(fh, cat)
		if err != nil {
			s.removeAll(paths)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Saver) validate(fh *multipart.FileHeader, cat Category) error {
	contentType := fh.Header.Get("Content-Type")
	if !cat.Accepts(contentType) {
		return reject("%s must be one of the allowed file types, got %q", cat.Name, contentType)
	}
	if fh.Size > cat.MaxSize {
		return reject("%s exceeds the %d MB size limit", cat.Name, cat.MaxSize/(1024*1024))
	}
	return nil
}

func (s *Saver) write(fh *multipart.FileHeader, cat Category) (string, error) {
	dir := filepath.Join(s.Root, cat.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := UniqueFilename(fh.Filename, cat)
	dest := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	// The size limit is re-checked on the actual stream: the multipart
	// header size is client-declared.
	written, err := io.Copy(out, io.LimitReader(src, cat.MaxSize+1))
	closeErr := out.Close()
	switch {
	case err != nil:
		_ = os.Remove(dest)
		return "", fmt.Errorf("write upload file: %w", err)
	case closeErr != nil:
		_ = os.Remove(dest)
		return "", fmt.Errorf("close upload file: %w", closeErr)
	case written > cat.MaxSize:
		_ = os.Remove(dest)
		return "", reject("%s exceeds the %d MB size limit", cat.Name, cat.MaxSize/(1024*1024))
	}

	return PublicPrefix + "/" + cat.Dir + "/" + name, nil
}

// Remove deletes a previously saved file by its public path. Used to back
// out an upload whose surrounding request failed after the write.
func (s *Saver) Remove(publicPath string) {
	s.removeAll([]string{publicPath})
}

func (s *Saver) removeAll(publicPaths []string) {
	for _, p := range publicPaths {
		rel := strings.TrimPrefix(p, PublicPrefix+"/")
		_ = os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	}
}

// UniqueFilename derives the stored filename: a slug of the original name,
// a millisecond timestamp plus a random integer so concurrent uploads of
// the same human-chosen name never collide, and the original extension.
func UniqueFilename(original string, cat Category) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = cat.DefaultExt
	}

	slug := Slugify(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if slug == "" {
		slug = cat.DefaultSlug
	}

	return fmt.Sprintf("%s-%d-%d%s", slug, time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}

// Slugify lowercases the name, collapses every non-alphanumeric run into a
// single dash and strips leading/trailing dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}
