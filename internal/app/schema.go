package app

import (
	"github.com/spf13/cobra"

	"github.com/api3dao/ois/internal/ois"
)

// NewSchemaCmd prints the embedded JSON Schema that describes the OIS structure.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   SchemaCmdName,
		Short: "Print the JSON Schema used for structural validation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(ois.Schema)
			return err
		},
	}
}
