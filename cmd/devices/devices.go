package devices

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearvoice/superhear/internal/transport"
)

// Command creates the command that lists available capture devices.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := transport.ListDevices()
			if err != nil {
				return err
			}

			fmt.Println("Available capture devices:")
			for _, info := range infos {
				fmt.Printf("  %d: %s, %s\n", info.Index, info.Name, info.ID)
			}
			return nil
		},
	}
}
