// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire retrieves raw RFC documents and mirrors them on disk.
// Implements: concurrent mirror racing (first success cancels the rest),
// outbound rate limiting, 429/503 retry, "not available" errors carrying
// the XML publication threshold, and the raw/ + metadata/ mirror layout.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/time/rate"

	"github.com/pdiddy/rfc-engine/internal/httputil"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"

	// maxDocumentBytes bounds a single download.
	maxDocumentBytes = 32 << 20
)

// Default mirror templates. Declared as vars so callers can inspect them
// when building configuration.
var (
	DefaultXMLMirrors = []string{
		"https://www.rfc-editor.org/rfc/rfc%d.xml",
	}
	DefaultTextMirrors = []string{
		"https://www.rfc-editor.org/rfc/rfc%d.txt",
		"https://www.ietf.org/rfc/rfc%d.txt",
	}
)

// Defaults applied by ApplyDefaults.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultUserAgent         = "rfc-engine/0.1"
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 5
	DefaultMaxRetries        = 3
	DefaultXMLThreshold      = 8650
)

// ErrNotFound is returned when a mirror answers 404 or serves something
// that is not the requested format.
var ErrNotFound = errors.New("not found")

// NotAvailableError reports that no mirror could supply an RFC in a format.
type NotAvailableError struct {
	Number int
	Format types.SourceFormat
	// BelowXMLThreshold is true when Number predates canonical XML
	// publication, so a missing XML source is expected.
	BelowXMLThreshold bool
	Err               error
}

func (e *NotAvailableError) Error() string {
	msg := fmt.Sprintf("RFC %d not available as %s", e.Number, e.Format)
	if e.BelowXMLThreshold && e.Format == types.SourceXML {
		msg += " (predates XML publication)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotAvailableError) Unwrap() error { return e.Err }

// RawDocument is the unparsed text of an RFC.
type RawDocument struct {
	Number int
	Format types.SourceFormat
	Text   string
	// Source is the URL or file path the text came from.
	Source string
}

// ApplyDefaults fills unset fetch settings.
func ApplyDefaults(cfg types.FetchConfig) types.FetchConfig {
	if len(cfg.XMLMirrors) == 0 {
		cfg.XMLMirrors = DefaultXMLMirrors
	}
	if len(cfg.TextMirrors) == 0 {
		cfg.TextMirrors = DefaultTextMirrors
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.XMLThreshold <= 0 {
		cfg.XMLThreshold = DefaultXMLThreshold
	}
	return cfg
}

// Fetcher retrieves RFCs from the raw mirror or the network.
type Fetcher struct {
	client  *http.Client
	cfg     types.FetchConfig
	limiter *rate.Limiter
	metrics *Metrics
	logger  *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option { return func(f *Fetcher) { f.logger = l } }

// WithMetrics sets the collectors requests are counted in.
func WithMetrics(m *Metrics) Option { return func(f *Fetcher) { f.metrics = m } }

// New creates a Fetcher. Unset configuration takes package defaults.
func New(cfg types.FetchConfig, opts ...Option) *Fetcher {
	cfg = ApplyDefaults(cfg)
	f := &Fetcher{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: cfg.Timeout}
	}
	if f.metrics == nil {
		f.metrics = NewMetrics(nil)
	}
	return f
}

// Config returns the effective configuration.
func (f *Fetcher) Config() types.FetchConfig { return f.cfg }

// Fetch returns RFC n in the requested format. The raw mirror is consulted
// first; otherwise all mirrors for the format are raced and the first
// success wins. A successful download is written to the raw mirror.
//
// When no mirror can supply the document the error is a
// *NotAvailableError. Context cancellation is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, n int, format types.SourceFormat) (RawDocument, error) {
	if err := ValidNumber(n); err != nil {
		return RawDocument{}, err
	}
	if doc, ok := f.readMirror(n, format); ok {
		return doc, nil
	}
	doc, err := f.download(ctx, n, format)
	if err != nil {
		return RawDocument{}, err
	}
	if f.cfg.DataDir != "" {
		if _, err := f.store(doc); err != nil {
			f.logger.Warn("raw mirror write failed", zap.Int("rfc", n), zap.Error(err))
		}
	}
	return doc, nil
}

// download races the network mirrors for one format.
func (f *Fetcher) download(ctx context.Context, n int, format types.SourceFormat) (RawDocument, error) {
	mirrors := f.cfg.XMLMirrors
	if format == types.SourceText {
		mirrors = f.cfg.TextMirrors
	}
	body, src, err := f.race(ctx, n, format, mirrors)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RawDocument{}, ctxErr
		}
		return RawDocument{}, &NotAvailableError{
			Number:            n,
			Format:            format,
			BelowXMLThreshold: n < f.cfg.XMLThreshold,
			Err:               err,
		}
	}

	return RawDocument{Number: n, Format: format, Text: body, Source: src}, nil
}

type raceResult struct {
	body string
	url  string
	err  error
}

// race requests every mirror concurrently and returns the first success.
// The remaining requests are cancelled.
func (f *Fetcher) race(ctx context.Context, n int, format types.SourceFormat, mirrors []string) (string, string, error) {
	if len(mirrors) == 0 {
		return "", "", fmt.Errorf("no %s mirrors configured", format)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan raceResult, len(mirrors))
	for _, tmpl := range mirrors {
		url := fmt.Sprintf(tmpl, n)
		go func() {
			body, err := f.get(ctx, url, format)
			results <- raceResult{body: body, url: url, err: err}
		}()
	}

	var errs []error
	for range mirrors {
		r := <-results
		if r.err == nil {
			return r.body, r.url, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.url, r.err))
	}
	return "", "", errors.Join(errs...)
}

// get downloads one URL through the limiter and retry policy.
func (f *Fetcher) get(ctx context.Context, url string, format types.SourceFormat) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.limiter)
	if err != nil {
		if ctx.Err() == nil {
			f.count(format, outcomeError)
		}
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		f.count(format, outcomeNotFound)
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		f.count(format, outcomeError)
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		f.count(format, outcomeError)
		return "", fmt.Errorf("reading body: %w", err)
	}
	body := string(data)
	if !looksLike(body, format) {
		f.count(format, outcomeNotFound)
		return "", fmt.Errorf("%w: response is not RFC %s", ErrNotFound, format)
	}
	f.count(format, outcomeOK)
	f.logger.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(data)))
	return body, nil
}

// looksLike rejects empty bodies and HTML error pages served with 200.
func looksLike(body string, format types.SourceFormat) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	if format == types.SourceXML {
		return strings.Contains(body, "<rfc")
	}
	head := strings.ToLower(body[:min(len(body), 512)])
	return !strings.Contains(head, "<html") && !strings.Contains(head, "<!doctype html")
}

func (f *Fetcher) count(format types.SourceFormat, outcome string) {
	f.metrics.Requests.WithLabelValues(string(format), outcome).Inc()
}

// RawPath returns where RFC n in format lives in the raw mirror.
func (f *Fetcher) RawPath(n int, format types.SourceFormat) string {
	return filepath.Join(f.cfg.DataDir, rawDir, Slug(n)+format.Ext())
}

// MetadataPath returns the metadata file for RFC n.
func (f *Fetcher) MetadataPath(n int) string {
	return filepath.Join(f.cfg.DataDir, metadataDir, Slug(n)+".yaml")
}

func (f *Fetcher) readMirror(n int, format types.SourceFormat) (RawDocument, bool) {
	if f.cfg.DataDir == "" {
		return RawDocument{}, false
	}
	p := f.RawPath(n, format)
	data, err := os.ReadFile(p)
	if err != nil || len(data) == 0 {
		return RawDocument{}, false
	}
	f.metrics.DiskHits.WithLabelValues(string(format)).Inc()
	return RawDocument{Number: n, Format: format, Text: string(data), Source: p}, true
}

// store writes doc and its metadata record to the raw mirror.
func (f *Fetcher) store(doc RawDocument) (*types.RFCRecord, error) {
	for _, dir := range []string{
		filepath.Join(f.cfg.DataDir, rawDir),
		filepath.Join(f.cfg.DataDir, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	rawPath := f.RawPath(doc.Number, doc.Format)
	if err := writeFileAtomic(rawPath, []byte(doc.Text)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", rawPath, err)
	}

	rec, err := ReadRecord(f.MetadataPath(doc.Number))
	if err != nil {
		rec = &types.RFCRecord{Number: doc.Number}
	}
	rec.Format = doc.Format
	rec.SourceURL = doc.Source
	rec.RawPath = rawPath
	rec.FetchedAt = time.Now().UTC()
	if err := WriteRecord(rec, f.MetadataPath(doc.Number)); err != nil {
		return nil, fmt.Errorf("writing metadata for %s: %w", Slug(doc.Number), err)
	}
	return rec, nil
}

// WriteRecord writes an RFC metadata record as YAML.
func WriteRecord(rec *types.RFCRecord, path string) error {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return writeFileAtomic(path, data)
}

// ReadRecord reads an RFC metadata record.
func ReadRecord(path string) (*types.RFCRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec types.RFCRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// writeFileAtomic writes data to a temporary file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
