package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/api3dao/ois/internal/config"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   InitCmdName + " [dir]",
		Short: "Create an " + config.ConfigFile + " with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			path, err := config.WriteDefault(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
