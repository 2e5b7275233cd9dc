// Package processor drives one batch: it walks and resolves every
// implementation of a model, collects all failures, and emits descriptors
// only when none occurred.
package processor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/olehluchkiv/spigen/internal/contract"
	"github.com/olehluchkiv/spigen/internal/descriptor"
	"github.com/olehluchkiv/spigen/internal/diagnostic"
	"github.com/olehluchkiv/spigen/internal/hierarchy"
	"github.com/olehluchkiv/spigen/internal/registry"
)

// ErrResolutionFailed is returned when at least one implementation failed
// resolution and emission was skipped.
var ErrResolutionFailed = errors.New("contract resolution failed")

// Model is a host's view of the types in one batch.
type Model interface {
	hierarchy.Source
	// Implementations returns the marked types in processing order.
	Implementations() []contract.Implementation
}

// diagnosticSource is implemented by models that report problems found
// while loading.
type diagnosticSource interface {
	Diagnostics() diagnostic.Diagnostics
}

// Options configures a Processor.
type Options struct {
	RootType   string
	Classes    hierarchy.ClassCandidates
	NoContract contract.NoContractPolicy
}

// Report is the outcome of the resolution phase.
type Report struct {
	Resolutions []contract.Resolution
	Registry    *registry.Registry
	Diagnostics diagnostic.Diagnostics
}

// Failed reports whether emission must be skipped.
func (r *Report) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Failures returns the errors of resolutions that block emission.
func (r *Report) Failures() []*contract.Error {
	var out []*contract.Error
	for _, res := range r.Resolutions {
		if res.Failed() {
			out = append(out, res.Err)
		}
	}
	return out
}

// Processor runs batches.
type Processor struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Processor.
func New(opts Options, logger *slog.Logger) *Processor {
	return &Processor{opts: opts, logger: logger}
}

// Resolve computes candidates and resolutions for every implementation of m
// and folds successes into a fresh registry. It never stops early.
func (p *Processor) Resolve(m Model) *Report {
	walker := hierarchy.NewWalker(m, hierarchy.WalkerOptions{
		RootType: p.opts.RootType,
		Classes:  p.opts.Classes,
	})
	resolver := contract.NewResolver(p.opts.NoContract, p.opts.RootType)

	report := &Report{Registry: registry.New()}
	if ds, ok := m.(diagnosticSource); ok {
		report.Diagnostics.Merge(ds.Diagnostics())
	}
	impls := m.Implementations()
	if len(impls) == 0 {
		report.Diagnostics.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityInfo,
			Code:     "no-implementations",
			Message:  "no marked implementation types found; nothing to register",
		})
	}
	for _, impl := range impls {
		impl.ID = hierarchy.Erase(impl.ID)
		candidates := walker.ResolveCandidates(impl.ID)
		res := resolver.Resolve(impl, candidates)
		report.Resolutions = append(report.Resolutions, res)

		p.logger.Debug("implementation resolved",
			"implementation", impl.ID,
			"candidates", candidates.Members(),
			"declared", impl.Declared,
			"contracts", res.Contracts)

		switch {
		case res.Skipped:
			report.Diagnostics.AddWarning(res.Err.Kind.String(), res.Err.Error(), impl.ID)
		case res.Err != nil:
			report.Diagnostics.AddError(res.Err.Kind.String(), res.Err.Error(), impl.ID, res.Err.Contracts...)
		default:
			for _, c := range res.Contracts {
				report.Registry.Record(c, impl.ID)
			}
		}
	}

	p.logger.Info("batch resolved",
		"implementations", len(report.Resolutions),
		"contracts", report.Registry.Len(),
		"errors", len(report.Diagnostics.Errors),
		"warnings", len(report.Diagnostics.Warnings))

	return report
}

// Emit writes the descriptors of a successful report.
func (p *Processor) Emit(report *Report, w descriptor.Writer) ([]string, error) {
	if report.Failed() {
		return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, report.Diagnostics.Err())
	}
	return descriptor.NewEmitter(w, p.logger).Emit(report.Registry.Entries())
}

// Run resolves m and, if every implementation resolved, emits its descriptors.
func (p *Processor) Run(m Model, w descriptor.Writer) (*Report, []string, error) {
	report := p.Resolve(m)
	written, err := p.Emit(report, w)
	return report, written, err
}
