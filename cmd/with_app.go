package cmd

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"opsdeck/internal/bootstrap"
	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/errs"
	"opsdeck/internal/usecase/dashboard"
	"opsdeck/internal/usecase/kitchen"
)

// appDeps is what the CLI commands pull out of the dependency graph.
type appDeps struct {
	App        *bootstrap.App
	Handler    nethttp.Handler
	Dashboards *dashboard.Service
	Kitchens   *kitchen.Service
}

func withApp(run func(cmd *cobra.Command, deps *appDeps) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var deps appDeps
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&deps.App, &deps.Handler, &deps.Dashboards, &deps.Kitchens),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, &deps); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
