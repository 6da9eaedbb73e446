package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"repo-grab/config"
	"repo-grab/fetcher"
	"repo-grab/gh"
	"repo-grab/helpers"
	"repo-grab/logger"
	"repo-grab/model"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	token      string
	apiURL     string
	ref        string
	logLevel   string
}

// downloadFlags only matter when content is fetched.
type downloadFlags struct {
	outputDir   string
	concurrency int
	force       bool
	noProgress  bool
}

type openFlags struct {
	print bool
}

func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "repo-grab",
		Short:         "Open or download files and directories from GitHub repositories",
		Long:          `repo-grab opens a repository path on github.com or downloads it: a single file as-is, a directory as a zip archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/repo-grab/config.json)")
	pf.StringVar(&g.token, "token", "", "GitHub personal access token (default $GITHUB_TOKEN or token file)")
	pf.StringVar(&g.apiURL, "api-url", "", "GitHub API base URL")
	pf.StringVar(&g.ref, "ref", "", "branch, tag or commit (default: repository default branch; main for open)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newOpenCmd(g))
	rootCmd.AddCommand(newDownloadCmd(g))
	rootCmd.AddCommand(newHandleCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// parseTarget accepts either a single GitHub URL or owner, repo and an
// optional path.
func parseTarget(args []string, action model.Action, ref string) (model.ContentRequest, error) {
	var req model.ContentRequest
	switch len(args) {
	case 1:
		parsed, err := helpers.ParseRequest(args[0], action)
		if err != nil {
			return req, err
		}
		req = parsed
	case 2, 3:
		req = model.ContentRequest{Owner: args[0], Repository: args[1], Action: action}
		if len(args) == 3 {
			req.Path = args[2]
		}
	default:
		return req, fmt.Errorf("expected <url> or <owner> <repo> [path], got %d arguments", len(args))
	}
	if ref != "" {
		req.Ref = ref
	}
	return req, req.Validate()
}

type session struct {
	cfg     config.Config
	log     *logger.Logger
	fetcher *fetcher.ContentFetcher
}

func loadConfig(g *globalFlags) (config.Config, error) {
	if g.configPath != "" {
		return config.LoadConfigFrom(g.configPath)
	}
	return config.LoadConfig()
}

func newSession(cmd *cobra.Command, g *globalFlags, d *downloadFlags, o *openFlags) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	if g.apiURL != "" {
		cfg.APIBaseURL = g.apiURL
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}

	log, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	token, err := cfg.ResolveToken(g.token)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(gh.Options{
		Token:      token,
		BaseURL:    cfg.APIBaseURL,
		MaxRetries: cfg.MaxRetries,
	})

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	opts := []fetcher.Option{
		fetcher.WithLogger(log),
		fetcher.WithWebBaseURL(cfg.WebBaseURL),
		fetcher.WithNotifier(&helpers.TerminalNotifier{Out: stderr}),
		fetcher.WithConcurrency(cfg.ConcurrentDownloadLimit),
		fetcher.WithNavigator(&helpers.BrowserNavigator{}),
	}
	if o != nil && o.print {
		opts = append(opts, fetcher.WithNavigator(helpers.PrintNavigator{Out: stdout}))
	}
	if d != nil {
		opts = append(opts, downloadOptions(cfg, d, stdout, stderr)...)
	}

	return &session{cfg: cfg, log: log, fetcher: fetcher.New(client, opts...)}, nil
}

func downloadOptions(cfg config.Config, d *downloadFlags, stdout, stderr io.Writer) []fetcher.Option {
	outputDir := cfg.OutputDir
	if d.outputDir != "" {
		outputDir = d.outputDir
	}

	opts := []fetcher.Option{
		fetcher.WithSaver(&helpers.DiskSaver{
			Dir:       outputDir,
			Overwrite: d.force,
			Saved: func(path string, a model.Artifact) {
				summary := fmt.Sprintf("[-] Saved %s (%s)", path, helpers.FormatBytes(int64(len(a.Data))))
				if a.Kind == model.ArtifactZip {
					summary += fmt.Sprintf(", %d files", a.Entries)
				}
				fmt.Fprintln(stdout, helpers.Colorize(summary, helpers.Green))
			},
		}),
	}
	if d.concurrency != 0 {
		opts = append(opts, fetcher.WithConcurrency(d.concurrency))
	}
	if !d.noProgress {
		opts = append(opts, fetcher.WithProgress(func() fetcher.Progress {
			return helpers.NewProgressBar(stderr, cfg.ProgressBarStyle, "[-] Fetching")
		}))
	}
	return opts
}

func run(cmd *cobra.Command, s *session, req model.ContentRequest) error {
	defer func() { _ = s.log.Sync() }()

	if err := s.fetcher.Handle(cmd.Context(), req); err != nil {
		s.log.Error("request failed", "owner", req.Owner, "repo", req.Repository, "path", req.Path, "error", err)
		return err
	}
	return nil
}
