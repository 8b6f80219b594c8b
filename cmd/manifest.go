package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest <package.yml>",
	Short: "Print the imsmanifest.xml for a package definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := loadValidPackage(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), scorm.NewManifestBuilder().Build(pc))
		return nil
	},
}

var pageCmd = &cobra.Command{
	Use:   "page <package.yml>",
	Short: "Print the generated index.html for a package definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := loadValidPackage(args[0])
		if err != nil {
			return err
		}
		page, err := scorm.NewPageRenderer().Render(cmd.Context(), pc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), page)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(pageCmd)
}
