package pakmerge

import (
	"fmt"

	"github.com/arthur-debert/pakmerge/internal/version"
	"github.com/arthur-debert/pakmerge/pkg/commands"
	"github.com/arthur-debert/pakmerge/pkg/logging"
	"github.com/arthur-debert/pakmerge/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	verbosity  int
	configPath string
	dataDir    string
	format     string
}

// env builds the command environment from the global flags
func (g *globalFlags) env() (*commands.Env, error) {
	return commands.NewEnv(commands.EnvOptions{
		ConfigPath: g.configPath,
		DataDir:    g.dataDir,
	})
}

// renderer creates the output renderer for cmd
func (g *globalFlags) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "pakmerge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", MsgFlagDataDir)
	rootCmd.PersistentFlags().StringVarP(&flags.format, "format", "f", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newInstallCmd(flags))
	rootCmd.AddCommand(newDeployCmd(flags))
	rootCmd.AddCommand(newMergeCmd(flags))
	rootCmd.AddCommand(newShowCmd(flags))
	rootCmd.AddCommand(newRemoveCmd(flags))
	rootCmd.AddCommand(newGenConfigCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}
