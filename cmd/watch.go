package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olehluchkiv/spigen/internal/resolver"
	"github.com/olehluchkiv/spigen/internal/watcher"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [manifest.yaml | module-dir]",
		Short: "Regenerate descriptors whenever the input changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runWatch,
	}
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	defer a.cleanup()
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	in, err := resolver.Resolve(ctx, inputArg(args), a.logger)
	if err != nil {
		return err
	}

	wcfg := watcher.Config{DebounceDur: a.cfg.WatchDebounce}
	switch in.Kind {
	case resolver.Manifest:
		wcfg.Root = in.Dir
		wcfg.Match = watcher.MatchFile(in.Path)
	default:
		wcfg.Root = in.Path
		wcfg.Match = watcher.MatchGoSources
	}
	w, err := watcher.New(wcfg, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	regenerate := func() {
		if err := a.generate(ctx, in, stdout, stderr); err != nil {
			a.logger.Error("generation failed", "error", err)
		}
	}

	a.logger.Info("watching", "root", wcfg.Root, "input", in.Path)
	regenerate()
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case <-onChange:
			a.logger.Info("input changed, regenerating")
			regenerate()
		}
	}
}
