package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repo-grab/model"
	"repo-grab/version"
)

func newOpenCmd(g *globalFlags) *cobra.Command {
	o := &openFlags{}
	cmd := &cobra.Command{
		Use:   "open (<url> | <owner> <repo> [path])",
		Short: "Open a repository path on github.com in the browser",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseTarget(args, model.ActionOpen, g.ref)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, g, nil, o)
			if err != nil {
				return err
			}
			return run(cmd, s, req)
		},
	}
	cmd.Flags().BoolVar(&o.print, "print", false, "print the URL instead of launching a browser")
	return cmd
}

func addDownloadFlags(cmd *cobra.Command, d *downloadFlags) {
	f := cmd.Flags()
	f.StringVarP(&d.outputDir, "output", "o", "", "directory to save downloads into")
	f.IntVarP(&d.concurrency, "concurrency", "c", 0, "max simultaneous file fetches for directories (negative for unbounded)")
	f.BoolVarP(&d.force, "force", "f", false, "overwrite an existing file")
	f.BoolVar(&d.noProgress, "no-progress", false, "disable the progress bar")
}

func newDownloadCmd(g *globalFlags) *cobra.Command {
	d := &downloadFlags{}
	cmd := &cobra.Command{
		Use:   "download (<url> | <owner> <repo> [path])",
		Short: "Download a file, or a directory as a zip archive",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseTarget(args, model.ActionDownload, g.ref)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, g, d, nil)
			if err != nil {
				return err
			}
			return run(cmd, s, req)
		},
	}
	addDownloadFlags(cmd, d)
	return cmd
}

// newHandleCmd mirrors the documentation-site helper: "open" navigates,
// any other action downloads.
func newHandleCmd(g *globalFlags) *cobra.Command {
	d := &downloadFlags{}
	o := &openFlags{}
	cmd := &cobra.Command{
		Use:   "handle <owner> <repo> <path> <action>",
		Short: `Open ("open") or download (any other action) a repository path`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := model.ParseAction(args[3])
			req, err := parseTarget(args[:3], action, g.ref)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, g, d, o)
			if err != nil {
				return err
			}
			return run(cmd, s, req)
		},
	}
	addDownloadFlags(cmd, d)
	cmd.Flags().BoolVar(&o.print, "print", false, "print the URL instead of launching a browser")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", version.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Time: %s\n", version.BuildTime)
		},
	}
}
