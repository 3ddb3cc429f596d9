package cmd

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hoppxi/svgpatch/config"
	"github.com/hoppxi/svgpatch/internal/settings"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newGenerateConfigCmd(fs afero.Fs) *cobra.Command {
	generateConfigCmd := &cobra.Command{
		Use:   "generate-config [dir]",
		Short: "Write the default job file (svgpatch.yaml) for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")

			yamlPath := filepath.Join(dir, config.JobFile)
			if exists, _ := afero.Exists(fs, yamlPath); exists && !force {
				reader := bufio.NewReader(cmd.InOrStdin())
				if !confirm(reader, cmd.OutOrStdout(), config.JobFile+" already exists. Overwrite?") {
					return nil
				}
			}

			s, err := settings.NewLoader(fs).Defaults()
			if err != nil {
				return err
			}

			if err := fs.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := writeJobFile(fs, yamlPath, s.File()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", yamlPath)
			return nil
		},
	}

	generateConfigCmd.Flags().Bool("force", false, "Overwrite an existing job file without asking")
	return generateConfigCmd
}

func writeJobFile(fs afero.Fs, path string, f settings.File) error {
	d, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, d, 0644)
}

func confirm(r *bufio.Reader, w io.Writer, message string) bool {
	fmt.Fprintf(w, "%s (y/N): ", message)
	input, _ := r.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
