// Command posctl is a terminal cashier for the POS API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Sign in and ring up sales against the UMKM POS API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newQuoteCommand(),
		newSaleCommand("checkout", "Record a paid sale", false),
		newSaleCommand("hold", "Save the cart as a held transaction (simpan)", true),
	)
	return root
}
