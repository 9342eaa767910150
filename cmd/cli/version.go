package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const (
	versionCommandUseConstant              = "version"
	versionCommandShortDescriptionConstant = "Print the checkout version"
	versionOutputTemplateConstant          = "%s %s\n"
	versionFallbackValueConstant           = "(devel)"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, resolveApplicationVersion())
			return nil
		},
	}
}

func resolveApplicationVersion() string {
	buildInformation, informationAvailable := debug.ReadBuildInfo()
	if !informationAvailable || len(buildInformation.Main.Version) == 0 {
		return versionFallbackValueConstant
	}
	return buildInformation.Main.Version
}
