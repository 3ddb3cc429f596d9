package cmd

import (
	"fmt"
	"os"

	"github.com/hoppxi/svgpatch/internal/logging"
	"github.com/hoppxi/svgpatch/internal/patcher"
	"github.com/hoppxi/svgpatch/internal/settings"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var Version = "0.1.0"

func NewRootCmd(fs afero.Fs) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "svgpatch [file]",
		Version: Version,
		Short:   "Insert a gradient into an SVG and point its fills at it",
		Long: "svgpatch inserts a gradient <defs> block after the opening <svg> tag and\n" +
			"replaces a fill value with a reference to that gradient, in place.\n" +
			"Running it twice on the same file inserts the gradient twice.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")

			s, err := settings.NewLoader(fs).Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.Path = args[0]
			}

			logger, err := logging.New(s.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			_, err = patcher.New(fs, cmd.OutOrStdout(), logger).Patch(s.Job(), s.Options())
			return err
		},
	}

	rootCmd.Flags().String("config", "", "Job file (YAML) to read instead of the built-in one")
	rootCmd.Flags().String("marker", "", "Text after which the fragment is inserted")
	rootCmd.Flags().String("fragment-file", "", "File holding the fragment to insert")
	rootCmd.Flags().String("target", "", "Attribute text to replace")
	rootCmd.Flags().String("replacement", "", "Text to replace the target with")
	rootCmd.Flags().Bool("dry-run", false, "Print the patched document instead of writing it")
	rootCmd.Flags().Bool("backup", false, "Copy the original to <file>.bak before writing")
	rootCmd.Flags().BoolP("verbose", "v", false, "Log each step to stderr")

	rootCmd.AddCommand(newGenerateConfigCmd(fs))

	return rootCmd
}

func Execute() {
	if err := NewRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
