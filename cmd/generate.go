package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/spigen/internal/analyzer"
	"github.com/olehluchkiv/spigen/internal/descriptor"
	"github.com/olehluchkiv/spigen/internal/diagnostic"
	"github.com/olehluchkiv/spigen/internal/diagram"
	"github.com/olehluchkiv/spigen/internal/manifest"
	"github.com/olehluchkiv/spigen/internal/processor"
	"github.com/olehluchkiv/spigen/internal/resolver"
)

// batch is a resolved input together with its resolution report.
type batch struct {
	input  resolver.Input
	proc   *processor.Processor
	report *processor.Report
}

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [manifest.yaml | module-dir]",
		Short: "Resolve contracts and write descriptors (the default command)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runGenerate,
	}
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	defer a.cleanup()

	in, err := resolver.Resolve(cmd.Context(), inputArg(args), a.logger)
	if err != nil {
		return err
	}
	return a.generate(cmd.Context(), in, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// generate runs one batch for in and writes its descriptors.
func (a *app) generate(ctx context.Context, in resolver.Input, stdout, stderr io.Writer) error {
	b, err := a.resolveInput(ctx, in)
	if err != nil {
		return err
	}
	printDiagnostics(stderr, b.report.Diagnostics)

	w, err := descriptor.NewFSWriter(descriptor.FSOptions{Root: a.cfg.Output, Atomic: a.cfg.Atomic})
	if err != nil {
		return fmt.Errorf("output directory %q: %w", a.cfg.Output, err)
	}
	written, err := b.proc.Emit(b.report, w)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %d descriptor(s) to %s\n", len(written), a.cfg.Output)
	for _, name := range written {
		fmt.Fprintf(stdout, "  %s\n", name)
	}

	if a.cfg.Diagram != "" {
		if err := writeDiagram(a.cfg.Diagram, b.report); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote diagram to %s\n", a.cfg.Diagram)
	}
	return nil
}

// resolveInput loads the model for in and resolves every implementation.
func (a *app) resolveInput(ctx context.Context, in resolver.Input) (*batch, error) {
	var (
		model    processor.Model
		hostRoot string
	)
	switch in.Kind {
	case resolver.Manifest:
		m, err := manifest.LoadFile(in.Path, a.logger)
		if err != nil {
			return nil, err
		}
		model, hostRoot = m, m.Root()
	case resolver.GoModule:
		m, err := analyzer.Analyze(ctx, in.Dir, a.cfg.AnalyzeOptions(), a.logger)
		if err != nil {
			return nil, err
		}
		model = m
	default:
		return nil, fmt.Errorf("unsupported input kind %s", in.Kind)
	}

	opts, err := a.cfg.ProcessorOptions(hostRoot)
	if err != nil {
		return nil, err
	}
	proc := processor.New(opts, a.logger)
	return &batch{input: in, proc: proc, report: proc.Resolve(model)}, nil
}

func printDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	for _, diag := range d.All() {
		fmt.Fprintln(w, diag.String())
	}
}

func writeDiagram(path string, report *processor.Report) error {
	content := diagram.GenerateMermaid(report.Registry.Entries(), diagram.DiagramOptions{IncludeInit: true})
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating diagram directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing diagram %s: %w", path, err)
	}
	return nil
}
