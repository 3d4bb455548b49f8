// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/rfc-engine/internal/httputil"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

// infoURLTemplate is the RFC Editor per-document metadata endpoint.
// Declared as a var so tests can substitute an httptest server.
var infoURLTemplate = "https://www.rfc-editor.org/rfc/rfc%d.json"

// rfcEditorInfo captures the fields we use from the RFC Editor JSON record.
type rfcEditorInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	PubDate     string   `json:"pub_date"`
	Status      string   `json:"status"`
	Abstract    string   `json:"abstract"`
	DOI         string   `json:"doi"`
	Obsoletes   []string `json:"obsoletes"`
	ObsoletedBy []string `json:"obsoleted_by"`
	Updates     []string `json:"updates"`
	UpdatedBy   []string `json:"updated_by"`
}

// FetchInfo retrieves bibliographic metadata for RFC n and merges it into
// rec.
func (f *Fetcher) FetchInfo(ctx context.Context, n int, rec *types.RFCRecord) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(infoURLTemplate, n), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, f.limiter)
	if err != nil {
		return fmt.Errorf("RFC Editor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RFC Editor returned HTTP %d", resp.StatusCode)
	}

	var info rfcEditorInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("parsing RFC Editor response: %w", err)
	}

	rec.Number = n
	rec.Title = strings.TrimSpace(info.Title)
	rec.Authors = nil
	for _, a := range info.Authors {
		if a = strings.TrimSpace(a); a != "" {
			rec.Authors = append(rec.Authors, a)
		}
	}
	rec.Published = info.PubDate
	rec.Status = info.Status
	rec.Abstract = strings.TrimSpace(info.Abstract)
	rec.DOI = info.DOI
	rec.Obsoletes = trimAll(info.Obsoletes)
	rec.ObsoletedBy = trimAll(info.ObsoletedBy)
	rec.Updates = trimAll(info.Updates)
	rec.UpdatedBy = trimAll(info.UpdatedBy)
	return nil
}

func trimAll(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
