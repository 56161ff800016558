package upload

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/dutchcoders/go-clamd"
)

// scan streams the file through clamd before it is written to disk. A
// positive match is a rejection; scanner connectivity problems fail the
// upload as a server error since skipping the scan silently would defeat
// its purpose.
func (s *Saver) scan(ctx context.Context, fh *multipart.FileHeader) error {
	if s.ClamdAddr == "" {
		return nil
	}

	reader, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload for scan: %w", err)
	}
	defer reader.Close()

	abort := make(chan bool)
	defer close(abort)

	results, err := clamd.NewClamd(s.ClamdAddr).ScanStream(reader, abort)
	if err != nil {
		return fmt.Errorf("scan upload: %w", err)
	}

	for result := range results {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if result.Status != clamd.RES_OK {
			return reject("malicious file detected")
		}
	}
	return nil
}
