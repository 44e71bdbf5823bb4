package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jask/actionfilter/internal/config"
	"github.com/jask/actionfilter/internal/filter"
	"github.com/jask/actionfilter/internal/logger"
	"github.com/jask/actionfilter/internal/sample"
	"github.com/jask/actionfilter/internal/tui"
)

var (
	headStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
)

func newCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty insight",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := deps.insights.Create(cmd.Context(), strings.Join(args, " "), filter.InsightType(strings.ToUpper(typ)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), in.ShortID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", string(filter.InsightTrends), "insight type: trends, funnels, retention, stickiness or lifecycle")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := deps.insights.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ins) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no insights; create one with `actionfilter new`"))
				return nil
			}
			for _, in := range ins {
				fmt.Fprintf(out, "%s  %-10s  %2d series  %s\n",
					badgeStyle.Render(in.ShortID), strings.ToLower(string(in.Type)), in.Filters.Len(), in.Name)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an insight's series in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := deps.insights.Open(cmd.Context(), args[0], func(p *filter.Props) { p.ReadOnly = true })
			if err != nil {
				return err
			}
			printView(cmd.OutOrStdout(), sess.Insight().Name, sess.Editor().View())
			return nil
		},
	}
}

func printView(w io.Writer, title string, v filter.ListView) {
	fmt.Fprintln(w, headStyle.Render(title))
	for _, r := range v.Rows {
		label := r.SeriesLabel
		if label == "" {
			label = fmt.Sprintf("%d", r.Index+1)
		}
		line := badgeStyle.Render(label) + "  " + r.Entry.DisplayName()
		if r.Variant() == filter.KindAction {
			line += mutedStyle.Render(" (" + r.Entry.Target.String() + ")")
		}
		if r.Entry.Math != "" {
			line += mutedStyle.Render(" [" + r.Entry.Math + "]")
		}
		fmt.Fprintln(w, line)
		for _, p := range r.Entry.Properties {
			fmt.Fprintf(w, "     %s %s %v\n", p.Key, p.Operator, p.Value)
		}
	}
	if v.Add != nil && v.Add.Limited {
		fmt.Fprintln(w, mutedStyle.Render(v.Add.Label))
	}
}

func editCmd() *cobra.Command {
	var readOnly bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an insight's series in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := deps.insights.Open(ctx, args[0], func(p *filter.Props) {
				p.ReadOnly = p.ReadOnly || readOnly
			})
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(ctx, sess, deps.catalog), tea.WithAltScreen(), tea.WithMouseCellMotion())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if sess.Reorders() > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d reorder(s) saved\n", sess.Reorders())
			}
			return sess.Err()
		},
	}
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "open without allowing changes")
	return cmd
}

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write an insight as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return deps.insights.Export(cmd.Context(), args[0], w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Create an insight from a yaml export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			in, err := deps.insights.Import(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), in.ShortID)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an insight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.insights.Delete(cmd.Context(), args[0])
		},
	}
}

func demoCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create sample insights from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}
			created, err := sample.Seed(cmd.Context(), sample.Repos{
				Insights: deps.insights.Insights,
				Events:   deps.catalog.Events,
				Actions:  deps.catalog.Actions,
			}, seed)
			if err != nil {
				return err
			}
			for _, in := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", badgeStyle.Render(in.ShortID), in.Name)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every insight and restore the default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all insights; pass --yes to confirm")
			}
			return deps.maint.Reset(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
		// config commands run before there is a database to open
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.Path()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			}
			var (
				cfg config.Config
				err error
			)
			if cfgFile != "" {
				cfg, err = config.LoadFile(cfgFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfgFile != "" {
				err = config.SaveFile(cfgFile, cfg)
			} else {
				err = config.Save(cfg)
			}
			if err != nil {
				return err
			}
			logger.Info("config written", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
