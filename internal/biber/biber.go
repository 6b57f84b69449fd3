// Package biber shells out to biber in tool mode to pretty-print a
// bibliography, so the record scanner always sees aligned, lowercase
// field names and blank-line-separated records.
package biber

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates the biber executable is not installed.
var ErrNotFound = errors.New("biber executable not found")

// Options control the biber invocation.
type Options struct {
	Binary string // executable name or path, "biber" if empty
	Indent int    // output indentation width
}

// Run reformats the bibliography at path through biber and returns
// the reformatted text. The transient .blg logs biber writes are
// removed before returning.
func Run(path string, opts Options) (string, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "biber"
	}

	tmp, err := os.CreateTemp("", "bibtidy-*.bib")
	if err != nil {
		return "", fmt.Errorf("creating biber output file: %w", err)
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	cmd := exec.Command(binary, Args(tmp.Name(), path, opts.Indent)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err = cmd.Run()
	removeLogs(path, tmp.Name())
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, binary)
		}
		return "", fmt.Errorf("biber %s: %v: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	out, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("reading biber output: %w", err)
	}
	return string(out), nil
}

// Args builds the biber tool-mode argument list for rewriting inFile
// into outFile.
func Args(outFile, inFile string, indent int) []string {
	return []string{
		"--tool",
		"--output_align",
		"--output_fieldcase=lower",
		fmt.Sprintf("--output_indent=%d", indent),
		"--quiet",
		"--output_file=" + outFile,
		inFile,
	}
}

// removeLogs deletes the .blg files biber leaves behind, one named
// after the input in the working directory and one next to the output
// file. Missing files are fine.
func removeLogs(inFile, outFile string) {
	base := strings.TrimSuffix(filepath.Base(inFile), filepath.Ext(inFile))
	os.Remove(base + ".blg")
	os.Remove(strings.TrimSuffix(outFile, filepath.Ext(outFile)) + ".blg")
}
