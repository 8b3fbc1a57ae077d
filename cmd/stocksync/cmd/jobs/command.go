// Package jobs provides the inventory, shipments and run commands.
package jobs

import (
	"github.com/spf13/cobra"

	"github.com/stocksync/stocksync/internal/cmd/application"
	"github.com/stocksync/stocksync/pkg/sync"
)

// NewInventoryCommand creates the inventory command.
func NewInventoryCommand(app application.Application) *cobra.Command {
	return newJobCommand(app, &cobra.Command{
		Use:   "inventory",
		Short: "Sync stock levels and cost metrics to the inventory table",
		Long: `Inventory updates every row of the inventory table from the warehouse:

• In Stock and Inbound from current stock levels
• Unit Cost from purchase history, unless the row sets Unit Cost Override
• Median postage plus labor and shipment counts, domestic and global

Only fields whose value changed are written.`,
		Example: `  stocksync inventory                                   # Sync with the configured window
  stocksync inventory --days 90                         # Medians over the last 90 days
  stocksync inventory --dry-run -o wide                 # Preview every row`,
	}, sync.JobInventory)
}

// NewShipmentsCommand creates the shipments command.
func NewShipmentsCommand(app application.Application) *cobra.Command {
	return newJobCommand(app, &cobra.Command{
		Use:   "shipments",
		Short: "Enrich shipment requests with carrier, cost and tracking data",
		Long: `Shipments fills the warehouse fields of shipment requests flagged
"Send To Warehouse" once the warehouse has shipped them:

• Service, postage cost, labor cost and an items snapshot (written once)
• Tracking number, a carrier tracker and its public tracking URL
• Delivered At, once the carrier reports delivery`,
		Example: `  stocksync shipments                                   # Enrich pending requests
  stocksync shipments --dry-run                         # Preview without creating trackers`,
	}, sync.JobShipments)
}

// NewRunCommand creates the run command, which runs every job in order.
func NewRunCommand(app application.Application) *cobra.Command {
	return newJobCommand(app, &cobra.Command{
		Use:   "run",
		Short: "Run the inventory and shipments jobs",
		Example: `  stocksync run                                         # Full sync
  stocksync run --start-date 2025-01-01 --end-date 2025-06-30
  stocksync run --timeout 10m -o json`,
	}, sync.Jobs()...)
}

func newJobCommand(app application.Application, cmd *cobra.Command, jobs ...sync.Job) *cobra.Command {
	cmd.GroupID = "core"
	cmd.Args = cobra.NoArgs

	flags := addFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return Execute(cmd.Context(), app, jobs, flags, cmd.OutOrStdout())
	}
	return cmd
}
