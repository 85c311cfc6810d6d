package reporter

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/arjunvg/devclean/internal/deleter"
	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/protection"
)

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestNew(t *testing.T) {
	r := New(false)
	if r == nil {
		t.Fatal("New(false) returned nil")
	}
	if r.verbose {
		t.Error("expected verbose=false")
	}
}

func TestPrintHeader(t *testing.T) {
	r := New(false)
	out := captureOutput(func() { r.PrintHeader() })
	if !bytes.Contains([]byte(out), []byte("devclean")) {
		t.Errorf("expected header to mention devclean, got %q", out)
	}
}

func sampleResult() model.ScanResult {
	p1 := model.Project{Root: "/a", Name: "a", Kind: model.ProjectKind{DisplayName: "Node.js", Icon: "N"}, CleanableSize: 1000}
	p2 := model.Project{Root: "/b", Name: "b", Kind: model.ProjectKind{DisplayName: "Rust", Icon: "R"}, CleanableSize: 2000}
	return model.ScanResult{
		Projects:           []model.Project{p1, p2},
		DirectoriesScanned: 42,
		Duration:           500 * time.Millisecond,
	}
}

func TestPrintScanSummary(t *testing.T) {
	r := New(false)
	out := captureOutput(func() { r.PrintScanSummary(sampleResult()) })
	if !bytes.Contains([]byte(out), []byte("Node.js")) || !bytes.Contains([]byte(out), []byte("Rust")) {
		t.Errorf("expected both project kinds in summary, got %q", out)
	}
}

func TestPrintScanSummary_ReportsCancellation(t *testing.T) {
	r := New(false)
	res := sampleResult()
	res.Cancelled = true
	out := captureOutput(func() { r.PrintScanSummary(res) })
	if !bytes.Contains([]byte(out), []byte("cancelled")) {
		t.Errorf("expected cancellation to be reported, got %q", out)
	}
}

func TestPrintProjectDetails_SilentWhenNotVerbose(t *testing.T) {
	r := New(false)
	out := captureOutput(func() { r.PrintProjectDetails(sampleResult().Projects) })
	if out != "" {
		t.Errorf("expected no output when not verbose, got %q", out)
	}
}

func TestPrintProjectDetails_VerboseListsEach(t *testing.T) {
	r := New(true)
	out := captureOutput(func() { r.PrintProjectDetails(sampleResult().Projects) })
	if !bytes.Contains([]byte(out), []byte("/a")) || !bytes.Contains([]byte(out), []byte("/b")) {
		t.Errorf("expected both project roots listed, got %q", out)
	}
}

func TestPrintProtectionDenied(t *testing.T) {
	r := New(false)
	p := model.Project{Root: "/x"}
	check := protection.Check{Allowed: false, Reasons: []string{"working tree has uncommitted changes"}}
	out := captureOutput(func() { r.PrintProtectionDenied(p, check) })
	if !bytes.Contains([]byte(out), []byte("/x")) || !bytes.Contains([]byte(out), []byte("uncommitted")) {
		t.Errorf("expected path and reason in output, got %q", out)
	}
}

func TestPrintDeletionResults_DryRun(t *testing.T) {
	r := New(false)
	results := []deleter.Result{{Success: true, BytesFreed: 100}, {Success: true, BytesFreed: 200}}
	out := captureOutput(func() { r.PrintDeletionResults(deleter.DryRun, results) })
	if !bytes.Contains([]byte(out), []byte("Dry run")) {
		t.Errorf("expected dry-run framing, got %q", out)
	}
}

func TestPrintDeletionResults_ReportsFailures(t *testing.T) {
	r := New(true)
	results := []deleter.Result{
		{Success: true, BytesFreed: 100},
		{Success: false, Error: errors.New("permission denied")},
	}
	out := captureOutput(func() { r.PrintDeletionResults(deleter.Permanent, results) })
	if !bytes.Contains([]byte(out), []byte("permission denied")) {
		t.Errorf("expected failure detail in verbose output, got %q", out)
	}
}

func TestPrintMessages(t *testing.T) {
	r := New(false)
	out := captureOutput(func() {
		r.PrintWarning("careful")
		r.PrintError("broken")
		r.PrintSuccess("done")
		r.PrintInfo("fyi")
	})
	for _, want := range []string{"careful", "broken", "done", "fyi"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}
