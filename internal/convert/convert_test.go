// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rfc-engine/internal/acquire"
	"github.com/pdiddy/rfc-engine/internal/service"
	"github.com/pdiddy/rfc-engine/pkg/types"
)

const sampleXML = `<rfc number="6455" docName="draft-ietf-hybi-thewebsocketprotocol-17">
<front><title>The WebSocket Protocol</title></front>
<middle>
<section pn="section-1"><name>Introduction</name>
<t>The protocol has two parts.</t>
<ul><li>a handshake</li><li>data transfer</li></ul>
<sourcecode type="abnf">ws-URI = "ws:" "//" host [ ":" port ] path [ "?" query ]</sourcecode>
<dl><dt>Frame</dt><dd>A unit of data on the wire.</dd></dl>
<section pn="section-1.1"><name>Background</name>
<t>A client <bcp14>MUST</bcp14> mask frames.</t>
</section>
</section>
</middle>
<back>
<references><name>Normative References</name>
<reference anchor="RFC2119"><front><title>Key words for use in RFCs</title></front><seriesInfo name="RFC" value="2119"/></reference>
</references>
</back>
</rfc>`

// fakeSource parses fixed documents and counts lookups.
type fakeSource struct {
	docs  map[int]acquire.RawDocument
	calls int
}

func (f *fakeSource) Document(_ context.Context, n int) (*service.Parsed, error) {
	f.calls++
	raw, ok := f.docs[n]
	if !ok {
		return nil, &acquire.NotAvailableError{Number: n, Format: types.SourceXML, Err: acquire.ErrNotFound}
	}
	return service.Parse(raw), nil
}

func newSource() *fakeSource {
	return &fakeSource{docs: map[int]acquire.RawDocument{
		6455: {Number: 6455, Format: types.SourceXML, Text: sampleXML, Source: "https://example.test/rfc6455.xml"},
	}}
}

func TestRender(t *testing.T) {
	p := service.Parse(acquire.RawDocument{Number: 6455, Format: types.SourceXML, Text: sampleXML})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := Render(p, now)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# RFC 6455: The WebSocket Protocol\n",
		"\n## 1. Introduction\n",
		"\n### 1.1. Background\n",
		"The protocol has two parts.\n",
		"- a handshake\n- data transfer\n",
		"```abnf\nws-URI = ",
		"A client MUST mask frames.\n",
		"### Normative References\n\n- [RFC2119] Key words for use in RFCs (RFC 2119)\n",
		"- **Frame**: A unit of data on the wire. (Section 1)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendering missing %q:\n%s", want, got)
		}
	}

	parts := strings.SplitN(got, "---\n", 3)
	if len(parts) != 3 || parts[0] != "" {
		t.Fatalf("no frontmatter:\n%s", got)
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		t.Fatal(err)
	}
	if fm.RFC != 6455 || fm.Title != "The WebSocket Protocol" || fm.Source != types.SourceXML {
		t.Errorf("frontmatter = %+v", fm)
	}
	if fm.DocName != "draft-ietf-hybi-thewebsocketprotocol-17" {
		t.Errorf("doc_name = %q", fm.DocName)
	}
	if fm.ConvertedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("converted_at = %q", fm.ConvertedAt)
	}
}

func TestRenderTextSourceNote(t *testing.T) {
	p := service.Parse(acquire.RawDocument{Number: 1000, Format: types.SourceText, Text: "1.  Introduction\n\n   Hosts MUST answer.\n"})
	got, err := Render(p, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "> "+service.TextSourceNote) {
		t.Errorf("missing source note:\n%s", got)
	}
	if !strings.Contains(got, "source_note:") {
		t.Errorf("frontmatter missing source_note:\n%s", got)
	}
}

func TestFence(t *testing.T) {
	var b strings.Builder
	fence(&b, "", "a ``` b\n")
	if want := "````\na ``` b\n````\n"; b.String() != want {
		t.Errorf("fence = %q, want %q", b.String(), want)
	}
}

func TestConvertRFC(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		preCreate  bool
		force      bool
		wantStatus Status
		wantLog    string
	}{
		{"successful conversion", 6455, false, false, StatusConverted, "converted: rfc6455 (xml)"},
		{"skip existing markdown", 6455, true, false, StatusSkipped, "skipped: rfc6455 (already exists)"},
		{"force overwrites", 6455, true, true, StatusConverted, "converted: rfc6455"},
		{"unavailable", 4242, false, false, StatusFailed, "failed:  rfc4242"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			mdPath := MarkdownPath(dataDir, tt.number)
			if tt.preCreate {
				if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(mdPath, []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			src := newSource()
			var buf bytes.Buffer
			status := ConvertRFC(context.Background(), src, tt.number, dataDir, tt.force, &buf)
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("log = %q, want substring %q", buf.String(), tt.wantLog)
			}
			if tt.wantStatus == StatusSkipped && src.calls != 0 {
				t.Errorf("skipped conversion parsed the RFC %d times", src.calls)
			}
			if tt.wantStatus == StatusConverted {
				data, err := os.ReadFile(mdPath)
				if err != nil {
					t.Fatal(err)
				}
				if !strings.HasPrefix(string(data), "---\nrfc: 6455\n") {
					t.Errorf("output does not start with frontmatter: %q", string(data)[:min(len(data), 40)])
				}
			}
		})
	}
}

func TestConvertBatch(t *testing.T) {
	dataDir := t.TempDir()
	var buf bytes.Buffer
	result := ConvertBatch(context.Background(), newSource(), []int{6455, 4242}, dataDir, false, &buf)

	if result.Converted != 1 || result.Failed != 1 || result.Total() != 2 {
		t.Errorf("result = %+v", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false")
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 converted, 0 skipped, 1 failed (total: 2)") {
		t.Errorf("missing summary:\n%s", buf.String())
	}

	buf.Reset()
	result = ConvertBatch(context.Background(), newSource(), []int{6455}, dataDir, false, &buf)
	if result.Skipped != 1 {
		t.Errorf("second run result = %+v, want 1 skipped", result)
	}
}
