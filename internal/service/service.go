// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package service is the query façade over fetching, parsing and caching.
// Implements: XML-first retrieval with plain-text fallback, a combined error
// when both formats fail, a per-RFC parse cache, and the structure,
// requirement, definition, dependency, related-section, checklist and
// statement-validation queries.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/cache"
	"github.com/pdiddy/rfc-engine/internal/textparse"
	"github.com/pdiddy/rfc-engine/internal/xmlparse"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// TextSourceNote is attached to every result derived from the plain-text
// rendering.
const TextSourceNote = "Parsed from plain text because XML source was unavailable. " +
	"Section structure and requirement extraction are heuristic and may be incomplete."

// Fetcher supplies raw RFC text in one format. *acquire.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, n int, format types.SourceFormat) (acquire.RawDocument, error)
}

// FetchError reports that neither format of an RFC could be retrieved.
type FetchError struct {
	Number  int
	XMLErr  error
	TextErr error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("RFC %d unavailable: XML: %v; text: %v", e.Number, e.XMLErr, e.TextErr)
}

// Unwrap exposes both underlying failures to errors.Is and errors.As.
func (e *FetchError) Unwrap() []error { return []error{e.XMLErr, e.TextErr} }

// Parsed is a parsed RFC with its provenance.
type Parsed struct {
	Number     int
	Document   *types.Document
	Source     types.SourceFormat
	SourceNote string
	// Origin is the URL or file the raw text came from.
	Origin string
}

// Service answers queries about RFCs.
type Service struct {
	fetcher   Fetcher
	cache     *cache.Cache[*Parsed]
	cacheSize int
	metrics   *cache.Metrics
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCacheSize bounds the number of parsed RFCs kept in memory.
func WithCacheSize(n int) Option { return func(s *Service) { s.cacheSize = n } }

// WithCacheMetrics sets the collectors the cache reports to.
func WithCacheMetrics(m *cache.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

// New creates a Service backed by f.
func New(f Fetcher, opts ...Option) (*Service, error) {
	s := &Service{fetcher: f, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	c, err := cache.New[*Parsed](s.cacheSize, s.metrics)
	if err != nil {
		return nil, err
	}
	s.cache = c
	return s, nil
}

// Document returns RFC n parsed, loading it on first use.
func (s *Service) Document(ctx context.Context, n int) (*Parsed, error) {
	if err := acquire.ValidNumber(n); err != nil {
		return nil, err
	}
	return s.cache.Get(ctx, n, func(ctx context.Context) (*Parsed, error) {
		return s.load(ctx, n)
	})
}

// Purge drops all cached documents.
func (s *Service) Purge() { s.cache.Purge() }

// load fetches XML, falling back to text when XML is not available.
// Other XML errors, such as cancellation, are returned without fallback.
func (s *Service) load(ctx context.Context, n int) (*Parsed, error) {
	raw, xmlErr := s.fetcher.Fetch(ctx, n, types.SourceXML)
	if xmlErr == nil {
		s.logger.Debug("parsing xml", zap.Int("rfc", n), zap.String("origin", raw.Source))
		return Parse(raw), nil
	}

	var na *acquire.NotAvailableError
	if !errors.As(xmlErr, &na) {
		return nil, xmlErr
	}
	if na.BelowXMLThreshold {
		s.logger.Debug("xml predates publication, using text", zap.Int("rfc", n))
	} else {
		s.logger.Warn("xml unavailable, using text", zap.Int("rfc", n), zap.Error(xmlErr))
	}

	raw, textErr := s.fetcher.Fetch(ctx, n, types.SourceText)
	if textErr != nil {
		return nil, &FetchError{Number: n, XMLErr: xmlErr, TextErr: textErr}
	}
	s.logger.Debug("parsing text", zap.Int("rfc", n), zap.String("origin", raw.Source))
	return Parse(raw), nil
}

// Parse runs the parser matching raw's format.
func Parse(raw acquire.RawDocument) *Parsed {
	p := &Parsed{Number: raw.Number, Source: raw.Format, Origin: raw.Source}
	if raw.Format == types.SourceXML {
		p.Document = xmlparse.Parse(raw.Text)
		if p.Document.Metadata.Number == 0 {
			p.Document.Metadata.Number = raw.Number
		}
		return p
	}
	p.Document = textparse.Parse(raw.Text, raw.Number)
	p.SourceNote = TextSourceNote
	return p
}
