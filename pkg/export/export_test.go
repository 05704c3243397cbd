package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-sigform/pkg/export"
	"github.com/goliatone/go-sigform/pkg/proposal"
	"github.com/goliatone/go-sigform/pkg/render"
	"github.com/goliatone/go-sigform/pkg/store"
	"github.com/goliatone/go-sigform/pkg/testsupport"
	"github.com/goliatone/go-sigform/pkg/validation"
)

type countingRenderer struct {
	calls int
}

func (r *countingRenderer) Name() string        { return "counting" }
func (r *countingRenderer) ContentType() string { return "text/html" }
func (r *countingRenderer) Render(context.Context, proposal.FormState, render.RenderOptions) ([]byte, error) {
	r.calls++
	return []byte("<html></html>"), nil
}

func fixedClock() time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
}

func TestPrinter_BlocksInvalidForm(t *testing.T) {
	renderer := &countingRenderer{}
	var buf bytes.Buffer
	printer := export.NewPrinter(renderer, export.WriterSink{W: &buf})

	_, err := printer.Print(testsupport.Context(), proposal.Default())
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	if len(verr.Issues) < 10 {
		t.Fatalf("expected the full issue list, got %d", len(verr.Issues))
	}
	if renderer.calls != 0 || buf.Len() != 0 {
		t.Fatalf("invalid form must not render")
	}
}

func TestPrinter_DeliversValidForm(t *testing.T) {
	renderer := &countingRenderer{}
	dir := t.TempDir()
	printer := export.NewPrinter(renderer, export.FileSink{Dir: dir}, export.WithClock(fixedClock))

	location, err := printer.Print(testsupport.Context(), testsupport.ValidForm())
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if want := filepath.Join(dir, "sig-proposal-EISE-2026-04-01.html"); location != want {
		t.Fatalf("unexpected location %q", location)
	}
	data, err := os.ReadFile(location)
	if err != nil || string(data) != "<html></html>" {
		t.Fatalf("unexpected file contents %q (%v)", data, err)
	}
}

func TestSnapshotFiles_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	snapshot, err := store.Export(testsupport.ValidForm(), fixedClock())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	path, err := export.SaveSnapshot(dir, snapshot)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "sig-proposal-2026-04-01.json" {
		t.Fatalf("unexpected path %q", path)
	}

	raw, err := export.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	state, _, err := store.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := testsupport.Diff(testsupport.ValidForm(), state); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := export.ReadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}
