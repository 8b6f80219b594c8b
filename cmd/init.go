package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realjck/scorm-iframe-packager/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [package.yml]",
	Short: "Describe a new SCORM package with an interactive wizard",
	Long: `Runs an interactive wizard that asks for the SCORM version, package type,
content and completion code, and writes a package definition file that
"scormpack build" consumes. Also writes a default .scormpack.yml when none
exists yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "package.yml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		if _, err := config.RunWizard(path); err != nil {
			return err
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			if err := config.DefaultConfig().Save(cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default settings written to %s\n", cfgFile)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run `scormpack build %s` to generate the package.\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
