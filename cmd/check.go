package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/spigen/internal/descriptor"
	"github.com/olehluchkiv/spigen/internal/resolver"
	"github.com/olehluchkiv/spigen/internal/verify"
)

// ErrDrift is returned by check when descriptors on disk are out of date.
var ErrDrift = errors.New("descriptors out of date")

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest.yaml | module-dir]",
		Short: "Verify that descriptors on disk match the sources",
		Long: `check resolves the input like generate but renders descriptors in memory
and compares them with the output directory. It exits non-zero when a
descriptor is missing, differs, or no longer has providers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	defer a.cleanup()

	in, err := resolver.Resolve(cmd.Context(), inputArg(args), a.logger)
	if err != nil {
		return err
	}
	b, err := a.resolveInput(cmd.Context(), in)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), b.report.Diagnostics)

	mem := descriptor.NewMemWriter()
	if _, err := b.proc.Emit(b.report, mem); err != nil {
		return err
	}

	results, err := verify.Compare(mem, a.cfg.Output)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Status == verify.Match {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", r.Status, r.Resource)
		if r.Diff != "" {
			for _, line := range strings.SplitAfter(r.Diff, "\n") {
				if line != "" {
					fmt.Fprintf(out, "    %s", line)
				}
			}
		}
	}
	if verify.Drifted(results) {
		a.logger.Warn("descriptors out of date", "output", a.cfg.Output)
		return ErrDrift
	}
	fmt.Fprintf(out, "%d descriptor(s) up to date in %s\n", len(results), a.cfg.Output)
	return nil
}
