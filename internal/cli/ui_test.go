package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/packopt/pkg/archive"
	"github.com/matzehuels/packopt/pkg/pipeline"
	"github.com/matzehuels/packopt/pkg/stage"
)

func TestRenderSummary(t *testing.T) {
	res := &pipeline.Result{
		Reports: []stage.Report{
			{Stage: "clone", Units: 12, Duration: 3 * time.Millisecond},
			{Stage: "json", Units: 4, Duration: time.Millisecond},
		},
		Archive: &archive.Summary{Files: 9, Duration: 2 * time.Millisecond},
	}

	out := renderSummary(res)
	for _, want := range []string{"Stage", "Items", "Duration", "clone", "12", "json", "zip", "9", "3ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummaryDigest(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &pipeline.Result{
		Archive: &archive.Summary{Path: "/out/pack.zip", Digest: archive.SHA256, Sum: "ba7816bf"},
	})
	if !strings.Contains(buf.String(), "Zip file SHA-256 hash: ba7816bf") {
		t.Errorf("summary missing digest line:\n%s", buf.String())
	}
}

func TestPrintOptions(t *testing.T) {
	var buf bytes.Buffer
	printOptions(&buf, pipeline.Options{InputPath: "/in", OutputPath: "/out", Exclude: []string{".md"}})

	out := buf.String()
	for _, want := range []string{"/in", "/out", "zip_name:", "None", ".md", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("options missing %q:\n%s", want, out)
		}
	}
}

func TestPrintExit(t *testing.T) {
	var buf bytes.Buffer
	printExit(&buf, "Input directory does not exist or is not a directory")

	out := buf.String()
	if !strings.HasPrefix(out, "\nExiting Program...\n\n") {
		t.Errorf("exit banner = %q", out)
	}
	if !strings.Contains(out, "Input directory does not exist") {
		t.Errorf("exit message missing: %q", out)
	}
}
