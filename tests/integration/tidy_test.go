// Package integration provides integration tests for bibtidy commands.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	bibtidyBinary string
	binaryOnce    sync.Once
	binaryErr     error
)

// getBinary builds the bibtidy binary once and returns its path.
func getBinary(t *testing.T) string {
	t.Helper()
	binaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			binaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		// Build bibtidy to a temp location
		tmpDir, err := os.MkdirTemp("", "bibtidy-test-*")
		if err != nil {
			binaryErr = err
			return
		}
		bibtidyBinary = filepath.Join(tmpDir, "bibtidy")

		cmd := exec.Command("go", "build", "-o", bibtidyBinary, "./cmd/bibtidy")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			binaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if binaryErr != nil {
		t.Fatalf("failed to build bibtidy: %v", binaryErr)
	}
	return bibtidyBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// runBibtidy runs the binary with an isolated config home and returns
// stdout, stderr, and the exit code.
func runBibtidy(t *testing.T, configHome string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(getBinary(t), args...)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+configHome)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("running bibtidy: %v", err)
	}
	return stdout.String(), stderr.String(), code
}

func writeBib(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "refs.bib")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTidy(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, `@article{zeta, title = {a study of the third annual conference on machine learning}, author = {J. Smith*}, journal = {arXiv preprint arXiv:1234.5678}, note = {draft}}

@article{alpha, title = {attention for llms}, author = {K. Lee}, journal = {Proceedings of the 38th International Conference on Machine Learning}, pages = {1--10}, year = 2021}
`)

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "tidy", "--no-biber", path)
	if code != 0 {
		t.Fatalf("tidy exited %d, stderr: %s", code, stderr)
	}
	want := `@article{alpha,
  author  = {K. Lee},
  journal = {{International Conference} on {Machine Learning}},
  pages   = {1--10},
  title   = {{Attention} for {LLMs}},
  year    = 2021,
}

@misc{zeta,
  author       = {J. Smith},
  eprint       = {1234.5678},
  eprinttype   = {arXiv},
  howpublished = {arXiv:1234.5678},
  title        = {{A Study} of {Machine Learning}},
}
`
	if stdout != want {
		t.Errorf("tidy output =\n%s\nwant\n%s", stdout, want)
	}
}

func TestTidyInputOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, `@misc{zeta, title = {second}, author = {A}}

@misc{alpha, title = {first}, author = {B}}
`)

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "tidy", "--no-biber", "--input-order", path)
	if code != 0 {
		t.Fatalf("tidy exited %d, stderr: %s", code, stderr)
	}
	if zeta, alpha := strings.Index(stdout, "@misc{zeta"), strings.Index(stdout, "@misc{alpha"); zeta < 0 || alpha < 0 || zeta > alpha {
		t.Errorf("tidy --input-order did not keep input order:\n%s", stdout)
	}
}

func TestTidyMissingAuthor(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, "@article{bad, title = {no author here}}\n")

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "tidy", "--no-biber", path)
	if code != 3 {
		t.Errorf("tidy exited %d, want 3", code)
	}
	if !strings.Contains(stderr, "missing required field 'author'") {
		t.Errorf("stderr = %q, want missing-author error", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want no output", stdout)
	}
}

func TestTidyNoArgs(t *testing.T) {
	stdout, _, code := runBibtidy(t, t.TempDir(), "tidy")
	if code != 0 {
		t.Errorf("tidy exited %d, want 0", code)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("stdout = %q, want usage text", stdout)
	}
}

func TestDupes(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, `@article{r1, title = {Deep Learning for Robotics}, author = {J. Smith}}

@article{r2, title = {deep   learning,  for robotics!}, author = {J. Smith}}

@article{solo, title = {Something Else}, author = {J. Smith}}
`)

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "dupes", "--no-biber", path)
	if code != 0 {
		t.Fatalf("dupes exited %d, stderr: %s", code, stderr)
	}
	if stdout != "r1 r2\n" {
		t.Errorf("dupes output = %q, want %q", stdout, "r1 r2\n")
	}
}

func TestDupesJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, `@article{r1, title = {Same}, author = {A}}

@article{r2, title = {Same}, author = {A}}
`)

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "dupes", "--no-biber", "--json", path)
	if code != 0 {
		t.Fatalf("dupes exited %d, stderr: %s", code, stderr)
	}
	want := `[
  {
    "keys": [
      "r1",
      "r2"
    ]
  }
]
`
	if stdout != want {
		t.Errorf("dupes --json output = %q, want %q", stdout, want)
	}
}

func TestDupesNone(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, "@article{only, title = {Unique}, author = {A}}\n")

	stdout, stderr, code := runBibtidy(t, t.TempDir(), "dupes", "--no-biber", path)
	if code != 0 {
		t.Fatalf("dupes exited %d, stderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("dupes output = %q, want none", stdout)
	}

	stdout, stderr, code = runBibtidy(t, t.TempDir(), "dupes", "--no-biber", "--json", path)
	if code != 0 {
		t.Fatalf("dupes --json exited %d, stderr: %s", code, stderr)
	}
	if stdout != "[]\n" {
		t.Errorf("dupes --json output = %q, want %q", stdout, "[]\n")
	}
}

func TestConfigSetGet(t *testing.T) {
	configHome := t.TempDir()

	stdout, stderr, code := runBibtidy(t, configHome, "config", "wrap", "100")
	if code != 0 {
		t.Fatalf("config set exited %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Updated wrap to 100") {
		t.Errorf("config set output = %q, want update confirmation", stdout)
	}

	stdout, stderr, code = runBibtidy(t, configHome, "config", "wrap")
	if code != 0 {
		t.Fatalf("config get exited %d, stderr: %s", code, stderr)
	}
	if stdout != "100\n" {
		t.Errorf("config get output = %q, want %q", stdout, "100\n")
	}
}

func TestConfigUnknownKey(t *testing.T) {
	_, stderr, code := runBibtidy(t, t.TempDir(), "config", "nonsense")
	if code != 1 {
		t.Errorf("config exited %d, want 1", code)
	}
	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("stderr = %q, want unknown-key error", stderr)
	}
}
