package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/citematch/internal/match"
	"github.com/lehigh-university-libraries/citematch/internal/search"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var format string
	var explain bool

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Find catalog records matching a free-text citation",
		Long: `Searches Crossref and WorldCat for the query and prints the candidates that
pass each source's acceptance rule. Crossref matches are listed first.

Sources that cannot be reached are reported on stderr; matches from the other
source are still printed.`,
		Example: `  # Print matching labels as a JSON array
  citematch search "Smith General Theory 1999"

  # One label per line, with the decision for every candidate on stderr
  citematch search --format text --explain Smith General Theory 1999

  # Reuse fetches across runs
  citematch search --cache ~/.cache/citematch.db "Keynes general theory 1936"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json", "yaml", "text":
			default:
				return fmt.Errorf("unsupported format %q (supported: json, yaml, text)", format)
			}

			svc, closeCache, err := buildService(root.cfg, nil)
			if err != nil {
				return err
			}
			defer closeCache()

			query := strings.Join(args, " ")
			var res search.Result
			if explain {
				var explanations []search.Explanation
				res, explanations = svc.Explain(cmd.Context(), query)
				writeExplanations(cmd.ErrOrStderr(), explanations)
			} else {
				res = svc.Search(cmd.Context(), query)
			}
			for _, f := range res.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", f.Source, f.Err)
			}
			return writeResult(cmd.OutOrStdout(), format, res)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml, text)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Print the decision for every candidate to stderr")

	return cmd
}

func writeResult(w io.Writer, format string, res search.Result) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	case "text":
		for _, label := range res.Labels() {
			if _, err := fmt.Fprintln(w, label); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Labels())
	}
}

func writeExplanations(w io.Writer, explanations []search.Explanation) {
	for _, e := range explanations {
		d := e.Decision
		verdict := "rejected"
		if d.Accepted {
			verdict = "accepted"
		}
		fmt.Fprintf(w, "[%s] %s: %s (%s)", e.Source, verdict, match.Format(e.Record), d.Reason)
		if d.Alignment.Found {
			fmt.Fprintf(w, " span=%d:%d", d.Alignment.Start, d.Alignment.End)
		}
		if len(d.Verdict.Unexplained) > 0 {
			fmt.Fprintf(w, " unexplained=%q", d.Verdict.Unexplained)
		}
		fmt.Fprintln(w)
	}
}
