package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/progress"
)

func newStartCmd(flags *globalFlags) *cobra.Command {
	var profilePath, resumePath string

	cmd := &cobra.Command{
		Use:   "start (--profile <file.yaml> | --resume <file>)",
		Short: "Start a new path from a profile or a résumé",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (profilePath == "") == (resumePath == "") {
				return fmt.Errorf("exactly one of --profile or --resume is required")
			}
			return withApp(cmd, flags, func(a *app) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				var profile models.UserProfile
				if profilePath != "" {
					p, err := readProfileFile(profilePath)
					if err != nil {
						return err
					}
					profile = p
				} else {
					f, err := os.Open(resumePath)
					if err != nil {
						return err
					}
					defer f.Close()
					p, err := a.api.ExtractProfile(ctx, filepath.Base(resumePath), f)
					if err != nil {
						return fmt.Errorf("failed to extract profile: %w", err)
					}
					profile = *p
					_, _ = fmt.Fprintf(out, "profile: %s\n", profile.CurrentSituation)
					award, err := a.progress.RecordProfileCompleted(ctx)
					if err != nil {
						return err
					}
					printAward(out, award)
				}

				node, err := a.explorer.Start(ctx, profile)
				if err != nil {
					return err
				}
				printNode(out, node)
				return recordVisit(ctx, out, a, node)
			})
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "YAML profile file")
	cmd.Flags().StringVar(&resumePath, "resume", "", "résumé file (.pdf, .docx, .txt, .md)")
	return cmd
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the path and the current node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				out := cmd.OutOrStdout()
				history := a.explorer.History()
				if len(history) == 0 {
					_, _ = fmt.Fprintln(out, "no path yet: run pathctl start")
					return nil
				}
				for _, n := range history {
					_, _ = fmt.Fprintf(out, "%s%d. %s (%s)\n", strings.Repeat("  ", n.Level), n.Level, n.Title, n.ID)
				}
				_, _ = fmt.Fprintln(out)
				printNode(out, history[len(history)-1])
				return nil
			})
		},
	}
}

func newChooseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "choose <n>",
		Short: "Follow option n of the current node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("option must be a positive number, got %q", args[0])
			}
			return withApp(cmd, flags, func(a *app) error {
				node, err := a.explorer.Choose(cmd.Context(), n-1)
				if err != nil {
					return err
				}
				printNode(cmd.OutOrStdout(), node)
				return recordVisit(cmd.Context(), cmd.OutOrStdout(), a, node)
			})
		},
	}
}

func newBackCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "back <node-id|level>",
		Short: "Return to an earlier node of the path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(a *app) error {
				var (
					node models.PathNode
					err  error
				)
				if level, convErr := strconv.Atoi(args[0]); convErr == nil {
					node, err = a.explorer.BacktrackToLevel(cmd.Context(), level)
				} else {
					node, err = a.explorer.Backtrack(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				printNode(cmd.OutOrStdout(), node)
				return nil
			})
		},
	}
}

func newResourcesCmd(flags *globalFlags) *cobra.Command {
	var save int

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Discover learning resources for the current node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()
				current, ok := a.explorer.Current()
				if !ok {
					return fmt.Errorf("no path yet: run pathctl start")
				}
				resources, err := a.explorer.LoadResources(ctx, current)
				if err != nil {
					return err
				}
				if len(resources) == 0 {
					_, _ = fmt.Fprintln(out, "no resources found")
					return nil
				}
				for i, r := range resources {
					_, _ = fmt.Fprintf(out, "%d. [%s] %s\n   %s\n", i+1, r.Type, r.Title, r.URL)
				}
				if save == 0 {
					return nil
				}
				if save < 1 || save > len(resources) {
					return fmt.Errorf("--save must be between 1 and %d", len(resources))
				}
				return saveResource(ctx, out, a, resources[save-1])
			})
		},
	}
	cmd.Flags().IntVar(&save, "save", 0, "bookmark resource n")
	return cmd
}

func newSavedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List bookmarked resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				out := cmd.OutOrStdout()
				saved, err := a.bookmarks.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(saved) == 0 {
					_, _ = fmt.Fprintln(out, "no saved resources")
					return nil
				}
				for _, r := range saved {
					_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Title, r.URL)
				}
				return nil
			})
		},
	}
}

func newUnsaveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unsave <id>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(a *app) error {
				removed, err := a.bookmarks.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("no saved resource with id %s", args[0])
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newProgressCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show XP, level and badges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				out := cmd.OutOrStdout()
				stats, err := a.progress.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "level %d (%d XP)\nnodes visited: %d\nresources saved: %d\n",
					stats.Level(), stats.XP, stats.NodesVisited, stats.ResourcesSaved)
				for _, b := range stats.Badges {
					_, _ = fmt.Fprintf(out, "badge: %s (%s)\n", b.Name, b.EarnedAt.Format("2006-01-02"))
				}
				return nil
			})
		},
	}
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the current path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				if err := a.explorer.Reset(cmd.Context()); err != nil {
					return err
				}
				if all {
					if err := a.progress.Reset(cmd.Context()); err != nil {
						return err
					}
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "path cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also clear XP and badges")
	return cmd
}

func saveResource(ctx context.Context, out io.Writer, a *app, res models.Resource) error {
	added, err := a.bookmarks.Save(ctx, res)
	if err != nil {
		return err
	}
	if !added {
		_, _ = fmt.Fprintf(out, "already saved: %s\n", res.Title)
		return nil
	}
	_, _ = fmt.Fprintf(out, "saved %s (%s)\n", res.Title, res.ID)
	award, err := a.progress.RecordResourceSaved(ctx)
	if err != nil {
		return err
	}
	printAward(out, award)
	return nil
}

func recordVisit(ctx context.Context, out io.Writer, a *app, node models.PathNode) error {
	award, err := a.progress.RecordNodeVisit(ctx, node)
	if err != nil {
		return err
	}
	printAward(out, award)
	return nil
}

func printNode(out io.Writer, node models.PathNode) {
	_, _ = fmt.Fprintf(out, "[level %d] %s\n%s\n", node.Level, node.Title, node.Description)
	if len(node.Options) > 0 {
		_, _ = fmt.Fprintln(out, "\nOptions:")
		for i, opt := range node.Options {
			_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, opt)
		}
	}
	if len(node.Resources) > 0 {
		_, _ = fmt.Fprintln(out, "\nResources:")
		for _, r := range node.Resources {
			line := fmt.Sprintf("  - [%s] %s", r.Type, r.Title)
			if r.URL != "" {
				line += " " + r.URL
			}
			_, _ = fmt.Fprintln(out, line)
		}
	}
}

func printAward(out io.Writer, award progress.Award) {
	if award.XP == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "+%d XP", award.XP)
	if award.LevelUp {
		_, _ = fmt.Fprintf(out, ", level %d!", award.Stats.Level())
	}
	_, _ = fmt.Fprintln(out)
	for _, b := range award.NewBadges {
		_, _ = fmt.Fprintf(out, "new badge: %s\n", b.Name)
	}
}
