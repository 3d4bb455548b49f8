// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rfc-engine/pkg/types"
)

const testXML = `<?xml version="1.0"?><rfc number="9000"><front><title>QUIC</title></front></rfc>`

const testText = `Internet Engineering Task Force (IETF)
Request for Comments: 1000

1.  Introduction

   Hosts MUST do things.
`

const testInfo = `{
  "doc_id": "RFC9000",
  "title": "QUIC: A UDP-Based Multiplexed and Secure Transport",
  "authors": ["J. Iyengar, Ed.", "M. Thomson, Ed."],
  "pub_date": "May 2021",
  "status": "PROPOSED STANDARD",
  "abstract": "  This document defines QUIC.  ",
  "doi": "10.17487/RFC9000",
  "updated_by": ["RFC9369"]
}`

// newMirrorServer serves:
//
//	/fast/rfc9000.xml     XML
//	/slow/*               blocks until the request is cancelled
//	/html/*               a 200 HTML error page
//	/text/rfc1000.txt     plain text
//	/info/rfc9000.json    RFC Editor metadata
//
// Everything else is 404.
func newMirrorServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/fast/rfc9000.xml":
			fmt.Fprint(w, testXML)
		case strings.HasPrefix(r.URL.Path, "/slow/"):
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
				fmt.Fprint(w, testXML)
			}
		case strings.HasPrefix(r.URL.Path, "/html/"):
			fmt.Fprint(w, "<!DOCTYPE html><html><body>Not found</body></html>")
		case r.URL.Path == "/text/rfc1000.txt":
			fmt.Fprint(w, testText)
		case r.URL.Path == "/info/rfc9000.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, testInfo)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	old := infoURLTemplate
	infoURLTemplate = ts.URL + "/info/rfc%d.json"
	t.Cleanup(func() { infoURLTemplate = old })
	return ts
}

func testConfig(ts *httptest.Server, dataDir string) types.FetchConfig {
	return types.FetchConfig{
		XMLMirrors:        []string{ts.URL + "/slow/rfc%d.xml", ts.URL + "/fast/rfc%d.xml"},
		TextMirrors:       []string{ts.URL + "/text/rfc%d.txt"},
		RequestsPerSecond: 1000,
		Burst:             100,
		DataDir:           dataDir,
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"6455", 6455, false},
		{"RFC6455", 6455, false},
		{"rfc 6455", 6455, false},
		{"RFC-0791", 791, false},
		{"rfc9000.xml", 9000, false},
		{"https://www.rfc-editor.org/rfc/rfc9110.html", 9110, false},
		{"https://datatracker.ietf.org/doc/html/rfc7230/", 7230, false},
		{"  99999  ", 99999, false},
		{"0", 0, true},
		{"100000", 0, true},
		{"draft-ietf-quic", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetch_RacesMirrors(t *testing.T) {
	ts := newMirrorServer(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	f := New(testConfig(ts, ""), WithMetrics(m))

	start := time.Now()
	doc, err := f.Fetch(context.Background(), 9000, types.SourceXML)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 4*time.Second, "slow mirror must not block the winner")

	assert.Equal(t, 9000, doc.Number)
	assert.Equal(t, types.SourceXML, doc.Format)
	assert.Equal(t, testXML, doc.Text)
	assert.Equal(t, ts.URL+"/fast/rfc9000.xml", doc.Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("xml", outcomeOK)))
}

func TestFetch_WritesRawMirror(t *testing.T) {
	ts := newMirrorServer(t)
	dir := t.TempDir()
	f := New(testConfig(ts, dir))

	_, err := f.Fetch(context.Background(), 9000, types.SourceXML)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "raw", "rfc9000.xml"))
	require.NoError(t, err)
	assert.Equal(t, testXML, string(data))

	rec, err := ReadRecord(filepath.Join(dir, "metadata", "rfc9000.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9000, rec.Number)
	assert.Equal(t, types.SourceXML, rec.Format)
	assert.Equal(t, ts.URL+"/fast/rfc9000.xml", rec.SourceURL)
	assert.False(t, rec.FetchedAt.IsZero())

	entries, err := os.ReadDir(filepath.Join(dir, "raw"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFetch_ServesRawMirror(t *testing.T) {
	ts := newMirrorServer(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "raw"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw", "rfc42.txt"), []byte("cached text"), 0o644))

	m := NewMetrics(prometheus.NewRegistry())
	f := New(testConfig(ts, dir), WithMetrics(m))
	doc, err := f.Fetch(context.Background(), 42, types.SourceText)
	require.NoError(t, err)
	assert.Equal(t, "cached text", doc.Text)
	assert.Equal(t, filepath.Join(dir, "raw", "rfc42.txt"), doc.Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DiskHits.WithLabelValues("text")))
}

func TestFetch_NotAvailable(t *testing.T) {
	ts := newMirrorServer(t)
	cfg := testConfig(ts, "")
	cfg.XMLMirrors = []string{ts.URL + "/missing/rfc%d.xml", ts.URL + "/html/rfc%d.xml"}
	f := New(cfg)

	_, err := f.Fetch(context.Background(), 1000, types.SourceXML)
	require.Error(t, err)

	var na *NotAvailableError
	require.True(t, errors.As(err, &na))
	assert.Equal(t, 1000, na.Number)
	assert.Equal(t, types.SourceXML, na.Format)
	assert.True(t, na.BelowXMLThreshold)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "predates XML publication")

	_, err = f.Fetch(context.Background(), 9999, types.SourceXML)
	require.True(t, errors.As(err, &na))
	assert.False(t, na.BelowXMLThreshold)
}

func TestFetch_ContextCancelled(t *testing.T) {
	ts := newMirrorServer(t)
	cfg := testConfig(ts, "")
	cfg.XMLMirrors = []string{ts.URL + "/slow/rfc%d.xml"}
	f := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, 9000, types.SourceXML)

	var na *NotAvailableError
	assert.False(t, errors.As(err, &na))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_InvalidNumber(t *testing.T) {
	f := New(types.FetchConfig{})
	_, err := f.Fetch(context.Background(), 0, types.SourceXML)
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestFetchBatch(t *testing.T) {
	ts := newMirrorServer(t)
	dir := t.TempDir()
	cfg := testConfig(ts, dir)
	cfg.XMLMirrors = []string{ts.URL + "/fast/rfc%d.xml"}
	f := New(cfg)

	var buf bytes.Buffer
	result := f.FetchBatch(context.Background(), []int{9000, 1000, 2000}, &buf)

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())

	out := buf.String()
	assert.Contains(t, out, "fetched: rfc9000 (xml)")
	assert.Contains(t, out, "fetched: rfc1000 (text)")
	assert.Contains(t, out, "failed:  rfc2000")
	assert.Contains(t, out, "warning: RFC Editor metadata fetch failed")
	assert.Contains(t, out, "Batch summary: 2 fetched, 0 skipped, 1 failed (total: 3)")

	rec, err := ReadRecord(filepath.Join(dir, "metadata", "rfc9000.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "QUIC: A UDP-Based Multiplexed and Secure Transport", rec.Title)
	assert.Equal(t, []string{"J. Iyengar, Ed.", "M. Thomson, Ed."}, rec.Authors)
	assert.Equal(t, "This document defines QUIC.", rec.Abstract)
	assert.Equal(t, []string{"RFC9369"}, rec.UpdatedBy)
	assert.Equal(t, filepath.Join(dir, "raw", "rfc9000.xml"), rec.RawPath)

	_, err = os.Stat(filepath.Join(dir, "raw", "rfc1000.txt"))
	assert.NoError(t, err)

	buf.Reset()
	again := f.FetchBatch(context.Background(), []int{9000, 1000}, &buf)
	assert.Equal(t, 2, again.Skipped)
	assert.Equal(t, 0, again.Fetched)
	assert.Contains(t, buf.String(), "skipped: rfc9000 (already exists)")
	require.Len(t, again.Records, 2)
	assert.Equal(t, "QUIC: A UDP-Based Multiplexed and Secure Transport", again.Records[0].Title)
}

func TestMirrorRFC_NoDataDir(t *testing.T) {
	f := New(types.FetchConfig{})
	_, _, err := f.MirrorRFC(context.Background(), 1, &bytes.Buffer{})
	assert.Error(t, err)
}
