package assets

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCommand creates a Cobra command tree for asset management.
// The returned command should be added to a parent CLI's root command.
//
// Commands provided:
//   - assets get <path-or-url> [--overwrite]
//   - assets fetch <url> [--output] [--root] [--sha256|--md5] [--overwrite]
//   - assets extract <archive> [--to] [--overwrite]
//   - assets cache list
//   - assets cache prune [--yes]
//
// Global flags: --json, --quiet, --verbose
func NewCommand(cfg Config, opts ...ResolverOption) *cobra.Command {
	var (
		jsonOutput bool
		quiet      bool
		verbose    bool
	)

	// Resolver will be created in PersistentPreRunE
	var res Resolver

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Resolve and cache remote assets",
		Long:  "Download, cache, verify, and extract remote assets (model weights, fonts, datasets).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip resolver creation for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			res, err = NewResolver(cfg, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize resolver: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	cmd.AddCommand(getCmd(&res))
	cmd.AddCommand(fetchCmd(&res, &quiet))
	cmd.AddCommand(extractCmd(&res, &jsonOutput, &quiet))
	cmd.AddCommand(cacheCmd(&res, &jsonOutput, &quiet))

	return cmd
}

func getCmd(res *Resolver) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "get <path-or-url>",
		Short: "Resolve an asset to a local path",
		Long:  "Print the local path for an asset reference, downloading it into the cache if needed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var opts []DownloadOption
			if overwrite {
				opts = append(opts, WithOverwrite())
			}

			path, err := (*res).Resolve(ctx, args[0], opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-download even if the file is cached")
	return cmd
}

func fetchCmd(res *Resolver, quiet *bool) *cobra.Command {
	var (
		output    string
		root      string
		sha256Sum string
		md5Sum    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a file",
		Long:  "Download a URL into the cache or an explicit destination, optionally verifying its digest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if sha256Sum != "" && md5Sum != "" {
				return fmt.Errorf("only one of --sha256 and --md5 may be given")
			}

			var opts []DownloadOption
			if output != "" {
				opts = append(opts, WithDestPath(output))
			}
			if root != "" {
				opts = append(opts, WithRootDir(root))
			}
			if overwrite {
				opts = append(opts, WithOverwrite())
			}
			if sha256Sum != "" {
				opts = append(opts, WithHash(HashSHA256, sha256Sum))
			}
			if md5Sum != "" {
				opts = append(opts, WithHash(HashMD5, md5Sum))
			}

			if !*quiet {
				var received int64
				opts = append(opts, WithProgress(func(delta int64) {
					received += delta
					fmt.Fprintf(cmd.OutOrStdout(), "\r\x1b[KDownloading... %s", formatSize(received))
				}))
			}

			path, err := (*res).Download(ctx, args[0], opts...)
			if !*quiet {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Exact destination path")
	cmd.Flags().StringVar(&root, "root", "", "Directory to store the URL-derived filename in")
	cmd.Flags().StringVar(&sha256Sum, "sha256", "", "Expected SHA-256 hex digest")
	cmd.Flags().StringVar(&md5Sum, "md5", "", "Expected MD5 hex digest")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-download even if the file exists")
	return cmd
}

func extractCmd(res *Resolver, jsonOutput, quiet *bool) *cobra.Command {
	var (
		to        string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract an archive",
		Long:  "Extract a .tar.gz, .tgz, .zip or .gz archive and list the extracted files.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []ExtractOption
			if to != "" {
				opts = append(opts, WithExtractDir(to))
			}
			if overwrite {
				opts = append(opts, WithExtractOverwrite())
			}

			files, err := (*res).Extract(args[0], opts...)
			if err != nil {
				return err
			}

			if *jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			if !*quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d file(s)\n", len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Directory to extract into (default: the archive's directory)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite already-extracted files")
	return cmd
}

func cacheCmd(res *Resolver, jsonOutput, quiet *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the asset cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cached, err := (*res).List(ctx)
			if err != nil {
				return err
			}
			return outputCachedAssets(cmd.OutOrStdout(), cached, *jsonOutput)
		},
	}

	var yes bool
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove all cached assets",
		Long:  "Remove every file from the asset cache. Assets will be re-downloaded on next use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Confirmation prompt
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Remove all cached assets? [y/N]: ")
				if !confirmPrompt(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := (*res).Prune(ctx); err != nil {
				return err
			}

			if !*quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Asset cache cleared.")
			}
			return nil
		},
	}
	pruneCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(pruneCmd)
	return cmd
}

// confirmPrompt reads from stdin and returns true only if the user types 'y' or 'yes'.
// Returns false for empty input or any other response (default is no).
func confirmPrompt(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}
	return false
}

// Output helpers

func outputCachedAssets(w io.Writer, cached []CachedAsset, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cached)
	}

	if len(cached) == 0 {
		fmt.Fprintln(w, "Cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, c := range cached {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			c.Name,
			formatSize(c.Size),
			c.ModTime.Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
