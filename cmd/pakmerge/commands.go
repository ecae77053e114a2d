package pakmerge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/pakmerge/internal/version"
	"github.com/arthur-debert/pakmerge/pkg/catalog"
	"github.com/arthur-debert/pakmerge/pkg/commands"
	"github.com/arthur-debert/pakmerge/pkg/config"
	"github.com/arthur-debert/pakmerge/pkg/paths"
	"github.com/arthur-debert/pakmerge/pkg/types"
	"github.com/arthur-debert/pakmerge/pkg/ui/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// modIDsCompletion completes installed mod ids
func modIDsCompletion(flags *globalFlags) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		env, err := flags.env()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		mods, err := commands.ShowMods(env, commands.ShowModsOptions{})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		used := make(map[string]bool, len(args))
		for _, arg := range args {
			used[arg] = true
		}
		var ids []string
		for _, rec := range mods {
			if !used[rec.ID] {
				ids = append(ids, rec.ID)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

func newInstallCmd(flags *globalFlags) *cobra.Command {
	var (
		modID  string
		gameID string
		first  bool
	)
	cmd := &cobra.Command{
		Use:     "install <package-dir>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env()
			if err != nil {
				return err
			}
			renderer, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			chooser := prompt.ForTerminal()
			if first {
				chooser = catalog.FirstVariant
			}

			log.Info().Str("source", args[0]).Msg("Installing mod package")
			result, err := commands.InstallMod(cmd.Context(), env, commands.InstallModOptions{
				SourceDir: args[0],
				ModID:     modID,
				GameID:    gameID,
				Chooser:   chooser,
			})
			if err != nil {
				return err
			}

			if err := renderer.RenderMessage(fmt.Sprintf(MsgInstalled, result.Record.ID, len(result.Catalog.Dictionary))); err != nil {
				return err
			}
			return renderer.RenderMods([]*types.ModRecord{result.Record})
		},
	}
	cmd.Flags().StringVar(&modID, "id", "", MsgFlagModID)
	cmd.Flags().StringVar(&gameID, "game", "", MsgFlagGame)
	cmd.Flags().BoolVar(&first, "first-variant", false, MsgFlagFirst)
	return cmd
}

func newMergeCmd(flags *globalFlags) *cobra.Command {
	var (
		owner    string
		mergeDir string
	)
	cmd := &cobra.Command{
		Use:     "merge <archive>",
		Short:   MsgMergeShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env()
			if err != nil {
				return err
			}
			renderer, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			result, err := commands.MergeArchive(cmd.Context(), env, commands.MergeArchiveOptions{
				ModID:    owner,
				FilePath: args[0],
				MergeDir: mergeDir,
			})
			if err != nil {
				return err
			}
			if result.Skipped {
				return renderer.RenderMessage(fmt.Sprintf(MsgMergeSkipped, args[0], result.Reason))
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgMerged, args[0], result.Target))
		},
	}
	cmd.Flags().StringVar(&owner, "mod", "", MsgFlagOwner)
	cmd.Flags().StringVar(&mergeDir, "merge-dir", "", MsgFlagMergeDir)
	_ = cmd.RegisterFlagCompletionFunc("mod", modIDsCompletion(flags))
	return cmd
}

func newDeployCmd(flags *globalFlags) *cobra.Command {
	var (
		mergeDir string
		rebuild  bool
	)
	cmd := &cobra.Command{
		Use:               "deploy [mods...]",
		Short:             MsgDeployShort,
		GroupID:           "core",
		ValidArgsFunction: modIDsCompletion(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env()
			if err != nil {
				return err
			}
			renderer, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			report, err := commands.Deploy(cmd.Context(), env, commands.DeployOptions{
				MergeDir: mergeDir,
				ModIDs:   args,
				Rebuild:  rebuild,
			})
			if err != nil {
				return err
			}
			if err := renderer.RenderMergeReport(report); err != nil {
				return err
			}
			if failed := len(report.Failed()); failed > 0 {
				return fmt.Errorf(MsgDeployFailures, failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mergeDir, "merge-dir", "", MsgFlagMergeDir)
	cmd.Flags().BoolVar(&rebuild, "rebuild", true, MsgFlagRebuild)
	return cmd
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "show [mods...]",
		Short:             MsgShowShort,
		GroupID:           "core",
		ValidArgsFunction: modIDsCompletion(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env()
			if err != nil {
				return err
			}
			renderer, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			mods, err := commands.ShowMods(env, commands.ShowModsOptions{ModIDs: args})
			if err != nil {
				return err
			}
			return renderer.RenderMods(mods)
		},
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <mod>",
		Short:             MsgRemoveShort,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: modIDsCompletion(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env()
			if err != nil {
				return err
			}
			renderer, err := flags.renderer(cmd)
			if err != nil {
				return err
			}

			if err := commands.RemoveMod(env, commands.RemoveModOptions{ModID: args[0]}); err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgRemoved, args[0]))
		},
	}
}

func newGenConfigCmd(flags *globalFlags) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := flags.configPath
			if path == "" {
				p, err := paths.New(flags.dataDir)
				if err != nil {
					return err
				}
				path = p.ConfigFilePath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf(MsgConfigExists, path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten+"\n", path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
