package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ai-forum-web/pkg/navigation"
)

var navbarFlags struct {
	JSON bool
}

var navbarCmd = &cobra.Command{
	Use:   "navbar",
	Short: "Print the navigation bar markup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printNavbar(cmd.OutOrStdout(), navbarFlags.JSON)
	},
}

func init() {
	navbarCmd.Flags().BoolVar(&navbarFlags.JSON, "json", false, "print the brand and links as JSON")
}

func printNavbar(w io.Writer, asJSON bool) error {
	bar := navigation.Navbar()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Brand string            `json:"brand"`
			Items []navigation.Item `json:"items"`
		}{Brand: bar.Brand(), Items: bar.Links()})
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render navbar: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
