package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"phone8ez/adapters/excel"
	"phone8ez/domain/dataset"
	"phone8ez/internal"
	"phone8ez/internal/exchange"
	"phone8ez/internal/sheet"
	"phone8ez/internal/workspace"

	"github.com/spf13/cobra"
)

const cliOwner = "datasetctl@localhost"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	verbose bool
	prefix  string
	logger  *internal.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:           "datasetctl",
		Short:         "Build, check and merge Phone8ez dataset export files offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := internal.LogLevelWarn
			if c.verbose {
				level = internal.LogLevelDebug
			}
			c.logger = internal.NewLogger(level)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVar(&c.prefix, "prefix", "phone8ez", "File name prefix for generated exports")

	rootCmd.AddCommand(
		c.newSheetCmd(),
		c.newCheckCmd(),
		c.newMergeCmd(),
		c.newSummaryCmd(),
	)
	return rootCmd
}

func (c *cli) manager() *exchange.Manager {
	cfg := exchange.DefaultConfig()
	cfg.FilePrefix = c.prefix
	return exchange.NewManager(cfg, exchange.WithLogger(c.logger))
}

func (c *cli) newSheetCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "sheet [xlsx-or-csv...]",
		Short: "Convert pricing workbooks into an export file",
		Long: `Read every sheet of the given workbooks as a normal dataset and write
them as one export file that the web app can import.

Example: datasetctl sheet skt_kt.xlsx lgu.xlsx -o march.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploads := make([]sheet.Upload, 0, len(args))
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				uploads = append(uploads, sheet.Upload{FileName: filepath.Base(path), Content: content})
			}

			ingester := sheet.NewIngester(excel.NewReader(c.logger), 0)
			datasets, err := ingester.IngestWorkbooks(cmd.Context(), uploads)
			if err != nil {
				return err
			}
			return c.export(cmd, datasets, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (default: timestamped name in the current directory)")
	return cmd
}

func (c *cli) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.json]",
		Short: "Validate an export file the same way the web app does on import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDatasets(cmd, ws.Datasets())
			return nil
		},
	}
}

func (c *cli) newMergeCmd() *cobra.Command {
	var name, out string

	cmd := &cobra.Command{
		Use:   "merge [file.json]",
		Short: "Add an integrated dataset built from every normal dataset in the file",
		Long: `Merge all normal datasets of an export file into one integrated dataset,
append it and write the result.

Example: datasetctl merge march.json --name "March all carriers" -o merged.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var sources []dataset.Dataset
			for _, d := range ws.Datasets() {
				if !d.IsIntegrated() {
					sources = append(sources, d)
				}
			}
			merged, err := sheet.Merge(name, sources...)
			if err != nil {
				return err
			}
			return c.export(cmd, ws.Add(merged), out)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the integrated dataset")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (default: timestamped name in the current directory)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) newSummaryCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "summary [file.json]",
		Short: "Print price statistics per dataset and carrier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			datasets := ws.Datasets()
			if id != "" {
				d, err := ws.Get(dataset.ID(id))
				if err != nil {
					return err
				}
				datasets = dataset.Collection{d}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATASET\tCARRIER\tCOUNT\tMIN\tMEDIAN\tMEAN\tP90\tMAX")
			for _, d := range datasets {
				s, err := sheet.Summarize(d.Data)
				if err != nil {
					fmt.Fprintf(w, "%s\t-\t%s\n", d.Name, err)
					continue
				}
				writeStats(w, d.Name, "all", s.Overall)
				for _, cs := range s.ByCarrier {
					writeStats(w, "", cs.Carrier, cs.Stats)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Only summarize the dataset with this id")
	return cmd
}

// load imports path into a scratch workspace, failing on any validation error
func (c *cli) load(ctx context.Context, path string) (*workspace.Workspace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", exchange.ErrFileRead, err)
	}
	defer f.Close()

	ws := workspace.New(cliOwner, 0)
	if _, err := c.manager().Import(ctx, f, exchange.ModeLocal, ws); err != nil {
		return nil, fmt.Errorf("%s: %s", path, exchange.Message(err))
	}
	return ws, nil
}

// export writes datasets to out, or to the generated file name when out is empty
func (c *cli) export(cmd *cobra.Command, datasets dataset.Collection, out string) error {
	save := exchange.SaverFunc(func(_ context.Context, f exchange.File) error {
		path := out
		if path == "" {
			path = f.Name
		}
		if err := os.WriteFile(path, f.Body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d datasets to %s (sha256 %s)\n", len(datasets), path, f.Checksum.Short())
		return nil
	})
	_, err := c.manager().Export(cmd.Context(), datasets, exchange.ModeLocal, save)
	return err
}

func printDatasets(cmd *cobra.Command, datasets dataset.Collection) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tROWS\tCOLUMNS\tCARRIERS")
	for _, d := range datasets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", d.ID, d.Name, d.Type, d.Data.Rows(), d.Data.Columns(),
			strings.Join(d.Data.Carrier, ","))
	}
	fmt.Fprintf(w, "%d datasets OK\n", len(datasets))
	w.Flush()
}

func writeStats(w *tabwriter.Writer, name, carrier string, s sheet.Stats) {
	fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n", name, carrier, s.Count, s.Min, s.Median, s.Mean, s.P90, s.Max)
}
