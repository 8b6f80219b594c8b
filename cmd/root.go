package cmd

import (
	"github.com/spf13/cobra"

	"github.com/realjck/scorm-iframe-packager/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scormpack",
	Short: "Package web content as SCORM 1.2 / 2004 modules",
	Long: `scormpack wraps a URL or an HTML snippet into a SCORM package that any
LMS can import. The generated page embeds the content in an iframe and can
gate completion behind a code the learner has to enter; only a SHA-256
digest of that code ships with the package.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
