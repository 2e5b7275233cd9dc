package descriptor

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrPathInvalid is returned for resource names that are empty, absolute or
// escape the output root.
var ErrPathInvalid = errors.New("path invalid")

// Writer creates named resources.
type Writer interface {
	Create(name string) (io.WriteCloser, error)
}

// FSOptions configures an FSWriter.
type FSOptions struct {
	// Root is the output directory (required).
	Root string
	// Atomic writes to a temporary file and renames it over the target on Close.
	Atomic   bool
	PermFile os.FileMode
	PermDir  os.FileMode
}

// FSWriter writes resources below a root directory.
type FSWriter struct {
	root   string
	atomic bool
	permF  os.FileMode
	permD  os.FileMode
}

var _ Writer = (*FSWriter)(nil)

// NewFSWriter creates an FSWriter.
func NewFSWriter(opts FSOptions) (*FSWriter, error) {
	if strings.TrimSpace(opts.Root) == "" {
		return nil, os.ErrInvalid
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	return &FSWriter{root: opts.Root, atomic: opts.Atomic, permF: pf, permD: pd}, nil
}

// Path maps a resource name to its file path under the root.
func (w *FSWriter) Path(name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(name))
	if rel == "." || rel == "" || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", ErrPathInvalid
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathInvalid
	}
	return filepath.Join(w.root, rel), nil
}

// Create implements Writer.
func (w *FSWriter) Create(name string) (io.WriteCloser, error) {
	dest, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), w.permD); err != nil {
		return nil, err
	}
	if !w.atomic {
		return os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.permF)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(tmp.Name(), w.permF)
	return &atomicFile{File: tmp, dest: dest}, nil
}

// Aborter is implemented by resources that can be discarded without
// committing what was written so far.
type Aborter interface {
	Abort() error
}

type atomicFile struct {
	*os.File
	dest string
}

// Abort closes and removes the temporary file; the target is left untouched.
func (f *atomicFile) Abort() error {
	tmpPath := f.Name()
	closeErr := f.File.Close()
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return closeErr
}

func (f *atomicFile) Close() error {
	tmpPath := f.Name()
	if err := f.File.Sync(); err != nil {
		_ = f.File.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.File.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, f.dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// MemWriter keeps resources in memory, in creation order.
type MemWriter struct {
	order []string
	data  map[string][]byte
}

var _ Writer = (*MemWriter)(nil)

// NewMemWriter returns an empty MemWriter.
func NewMemWriter() *MemWriter {
	return &MemWriter{data: make(map[string][]byte)}
}

// Create implements Writer. Re-creating a name replaces its content.
func (m *MemWriter) Create(name string) (io.WriteCloser, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrPathInvalid
	}
	return &memFile{m: m, name: name}, nil
}

// Names returns resource names in first-creation order.
func (m *MemWriter) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// SortedNames returns resource names sorted lexically.
func (m *MemWriter) SortedNames() []string {
	out := m.Names()
	sort.Strings(out)
	return out
}

// Get returns the content of a resource.
func (m *MemWriter) Get(name string) ([]byte, bool) {
	b, ok := m.data[name]
	return b, ok
}

type memFile struct {
	m    *MemWriter
	name string
	buf  bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	if _, ok := f.m.data[f.name]; !ok {
		f.m.order = append(f.m.order, f.name)
	}
	f.m.data[f.name] = bytes.Clone(f.buf.Bytes())
	return nil
}
