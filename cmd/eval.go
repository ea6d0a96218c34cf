package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/citematch/internal/evalcmd"
	"github.com/lehigh-university-libraries/citematch/internal/match"
	"github.com/spf13/cobra"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	opts := evalcmd.Options{
		Sources: []string{match.Crossref.Source, match.WorldCat.Source},
	}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure match rates against the Institutional Books dataset",
		Long: `Runs every record of an Institutional Books 1.0 file through the search.

Each record becomes the query "surname title year". A record counts as a hit for
a source when one of that source's accepted candidates has a title starting with
the record's title. Hit rates are printed per source and written as YAML.

Dataset: https://huggingface.co/datasets/instdin/institutional-books-1.0`,
		Example: `  # Evaluate 10 records from a local parquet file
  citematch eval --dataset ./institutional-books-1.0/data/train-00000-of-09831.parquet --sample 10

  # Download a file from HuggingFace first, caching fetches on disk
  citematch eval --download data/train-00000-of-09831.parquet --sample 50 --cache eval.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Download == "" {
				if opts.DatasetPath == "" {
					return fmt.Errorf("one of --dataset or --download is required")
				}
				if _, err := os.Stat(opts.DatasetPath); os.IsNotExist(err) {
					return fmt.Errorf("dataset file not found: %s\n\nPlease clone the dataset first:\n  git clone https://huggingface.co/datasets/instdin/institutional-books-1.0", opts.DatasetPath)
				}
			}
			if opts.HFToken == "" {
				opts.HFToken = os.Getenv("HF_TOKEN")
			}

			svc, closeCache, err := buildService(root.cfg, nil)
			if err != nil {
				return err
			}
			defer closeCache()

			_, err = evalcmd.Execute(cmd.Context(), opts, svc, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to an Institutional Books parquet or JSONL file")
	cmd.Flags().StringVar(&opts.Download, "download", "", "Dataset file to download from HuggingFace instead of --dataset")
	cmd.Flags().StringVar(&opts.CacheDir, "download-dir", "", "Directory for downloaded dataset files")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&opts.OutputJSON, "output-json", "eval_results.json", "Path to output JSON results file")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "evals", "Directory for the YAML results file")

	return cmd
}
