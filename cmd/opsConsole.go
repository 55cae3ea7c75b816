package cmd

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/errs"
	"opsdeck/internal/usecase/opsconsole"
)

var consoleOpsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Start the operations console (dashboard and kitchen alerts)",
	RunE: withApp(func(cmd *cobra.Command, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		if tenantID == "" {
			return errors.New("--tenant is required")
		}
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := opsconsole.NewOpsModel(ctx, deps.Dashboards, deps.Kitchens, opsconsole.Options{
			TenantID:        tenantID,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run ops console")
		}
		return nil
	}),
}

func init() {
	consoleCmd.AddCommand(consoleOpsCmd)
	consoleOpsCmd.Flags().String("tenant", "", "Tenant to display")
	consoleOpsCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
