// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

// BatchResult holds the outcome of a batch mirror run.
type BatchResult struct {
	Fetched int
	Skipped int
	Failed  int
	Records []*types.RFCRecord
}

// Total returns the total number of RFCs processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped + r.Failed
}

// HasFailures reports whether any RFC failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Mirrored reports whether RFC n is already in the raw mirror, and in
// which format.
func (f *Fetcher) Mirrored(n int) (types.SourceFormat, bool) {
	if f.cfg.DataDir == "" {
		return "", false
	}
	for _, format := range []types.SourceFormat{types.SourceXML, types.SourceText} {
		if _, err := os.Stat(f.RawPath(n, format)); err == nil {
			return format, true
		}
	}
	return "", false
}

// MirrorRFC downloads RFC n into the raw mirror, preferring XML and falling
// back to text, then enriches its metadata record from the RFC Editor. If
// the RFC is already mirrored the download is skipped.
func (f *Fetcher) MirrorRFC(ctx context.Context, n int, w io.Writer) (rec *types.RFCRecord, skipped bool, err error) {
	if f.cfg.DataDir == "" {
		return nil, false, errors.New("no data directory configured")
	}
	if err := ValidNumber(n); err != nil {
		return nil, false, err
	}
	if format, ok := f.Mirrored(n); ok {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", Slug(n))
		r, readErr := ReadRecord(f.MetadataPath(n))
		if readErr != nil {
			r = &types.RFCRecord{Number: n, Format: format, RawPath: f.RawPath(n, format)}
		}
		return r, true, nil
	}

	fmt.Fprintf(w, "downloading: %s\n", Slug(n))
	doc, err := f.fetchPreferred(ctx, n)
	if err != nil {
		return nil, false, err
	}
	rec, err = f.store(doc)
	if err != nil {
		return nil, false, err
	}

	if err := f.FetchInfo(ctx, n, rec); err != nil {
		fmt.Fprintf(w, "  warning: RFC Editor metadata fetch failed: %v\n", err)
	} else if err := WriteRecord(rec, f.MetadataPath(n)); err != nil {
		return nil, false, fmt.Errorf("writing metadata for %s: %w", Slug(n), err)
	}
	return rec, false, nil
}

// fetchPreferred fetches XML, then text when XML is not available. Both
// failures are reported together.
func (f *Fetcher) fetchPreferred(ctx context.Context, n int) (RawDocument, error) {
	doc, xmlErr := f.download(ctx, n, types.SourceXML)
	if xmlErr == nil {
		return doc, nil
	}
	var na *NotAvailableError
	if !errors.As(xmlErr, &na) {
		return RawDocument{}, xmlErr
	}
	doc, textErr := f.download(ctx, n, types.SourceText)
	if textErr != nil {
		return RawDocument{}, errors.Join(xmlErr, textErr)
	}
	return doc, nil
}

// FetchBatch mirrors multiple RFCs, printing per-item status and returning
// a summary. It continues after individual failures.
func (f *Fetcher) FetchBatch(ctx context.Context, numbers []int, w io.Writer) BatchResult {
	var result BatchResult
	for _, n := range numbers {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", Slug(n), ctx.Err())
			result.Failed++
			continue
		}
		rec, wasSkipped, err := f.MirrorRFC(ctx, n, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", Slug(n), err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			fmt.Fprintf(w, "fetched: %s (%s)\n", Slug(n), rec.Format)
			result.Fetched++
		}
		result.Records = append(result.Records, rec)
	}
	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d skipped, %d failed (total: %d)\n",
		result.Fetched, result.Skipped, result.Failed, result.Total())
	return result
}
