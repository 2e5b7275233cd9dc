// Package verify compares freshly rendered descriptors with the ones already
// present in an output directory.
package verify

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/olehluchkiv/spigen/internal/descriptor"
)

// Status classifies one descriptor.
type Status int

const (
	// Match means the file on disk equals the rendered descriptor.
	Match Status = iota
	// Missing means the descriptor was rendered but no file exists.
	Missing
	// Changed means the file exists with different content.
	Changed
	// Stale means a file exists for a contract that no longer has providers.
	Stale
)

func (s Status) String() string {
	switch s {
	case Match:
		return "match"
	case Missing:
		return "missing"
	case Changed:
		return "changed"
	case Stale:
		return "stale"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome for one resource.
type Result struct {
	Resource string
	Status   Status
	// Diff is a line diff from disk to rendered content, set for Changed.
	Diff string
}

// Compare checks every resource in expected against root and reports
// descriptor files under root that expected does not contain.
func Compare(expected *descriptor.MemWriter, root string) ([]Result, error) {
	want := map[string]bool{}
	var results []Result

	for _, name := range expected.SortedNames() {
		want[name] = true
		data, _ := expected.Get(name)

		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			results = append(results, Result{Resource: name, Status: Missing})
			continue
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		if string(got) == string(data) {
			results = append(results, Result{Resource: name, Status: Match})
			continue
		}
		results = append(results, Result{
			Resource: name,
			Status:   Changed,
			Diff:     LineDiff(string(got), string(data)),
		})
	}

	stale, err := existing(root)
	if err != nil {
		return nil, err
	}
	for _, name := range stale {
		if !want[name] {
			results = append(results, Result{Resource: name, Status: Stale})
		}
	}
	return results, nil
}

// Drifted reports whether any result differs from disk.
func Drifted(results []Result) bool {
	for _, r := range results {
		if r.Status != Match {
			return true
		}
	}
	return false
}

// existing lists descriptor resources below root/META-INF/services.
func existing(root string) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(descriptor.Prefix))
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing descriptors: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// LineDiff renders a line-oriented diff, prefixing removed lines with "-",
// added lines with "+" and unchanged lines with a space.
func LineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
