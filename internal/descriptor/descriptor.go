// Package descriptor turns registry entries into service descriptor resources,
// one per contract, under META-INF/services/.
package descriptor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/olehluchkiv/spigen/internal/registry"
)

// Prefix is the namespace every descriptor name starts with.
const Prefix = "META-INF/services/"

// ResourceName returns the resource name for a contract.
func ResourceName(contract string) string {
	return Prefix + contract
}

// Render returns descriptor content: one implementation per line, each
// followed by a newline.
func Render(impls []string) []byte {
	var buf bytes.Buffer
	_ = writeLines(&buf, impls)
	return buf.Bytes()
}

func writeLines(w io.Writer, impls []string) error {
	bw := bufio.NewWriter(w)
	for _, impl := range impls {
		if _, err := bw.WriteString(impl); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EmissionError reports a descriptor that could not be written.
type EmissionError struct {
	Resource string
	Err      error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Resource, e.Err)
}

func (e *EmissionError) Unwrap() error {
	return e.Err
}

// Emitter writes descriptors through a Writer.
type Emitter struct {
	w      Writer
	logger *slog.Logger
}

// NewEmitter creates an Emitter.
func NewEmitter(w Writer, logger *slog.Logger) *Emitter {
	return &Emitter{w: w, logger: logger}
}

// Emit writes one descriptor per entry and returns the resource names
// written. The first failure stops emission.
func (e *Emitter) Emit(entries []registry.Entry) ([]string, error) {
	written := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := ResourceName(entry.Contract)
		if err := e.emitOne(name, entry.Implementations); err != nil {
			e.logger.Error("descriptor write failed", "resource", name, "error", err)
			return written, &EmissionError{Resource: name, Err: err}
		}
		e.logger.Info("descriptor written", "contract", entry.Contract, "resource", name,
			"implementations", entry.Implementations)
		written = append(written, name)
	}
	return written, nil
}

func (e *Emitter) emitOne(name string, impls []string) error {
	wc, err := e.w.Create(name)
	if err != nil {
		return err
	}
	if err := writeLines(wc, impls); err != nil {
		if a, ok := wc.(Aborter); ok {
			_ = a.Abort()
		} else {
			_ = wc.Close()
		}
		return err
	}
	return wc.Close()
}
