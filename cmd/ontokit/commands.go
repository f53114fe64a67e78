package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kittclouds/ontokit/internal/store"
	"github.com/kittclouds/ontokit/pkg/grammar"
	"github.com/kittclouds/ontokit/pkg/grammar/en"
	"github.com/kittclouds/ontokit/pkg/model"
	"github.com/kittclouds/ontokit/pkg/ontology"
	"github.com/kittclouds/ontokit/pkg/output"
)

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "ontokit",
		Short:         "Extract structured values from natural-language text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to the config file (default ontokit.yaml when present)")
	pf.StringVarP(&g.lang, "lang", "l", "en", "Language of the input")
	pf.StringVar(&g.modelDir, "model-dir", "models", "Directory holding trained model blobs")
	pf.BoolVar(&g.train, "train", true, "Train a model when none is stored")

	root.AddCommand(
		newParseCmd(g),
		newAnalyseCmd(g),
		newTrainCmd(g),
		newInfoCmd(g),
		newRunsCmd(g),
	)
	return root
}

func newParseCmd(g *globals) *cobra.Command {
	var (
		kinds     string
		all       bool
		asJSON    bool
		reference string
	)
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Parse text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			order, err := a.cfg.KindOrder()
			if err != nil {
				return err
			}
			if kinds != "" {
				if order, err = output.ParseKinds(kinds); err != nil {
					return err
				}
			}
			ref := time.Now()
			if reference != "" {
				if ref, err = time.Parse(time.RFC3339, reference); err != nil {
					return fmt.Errorf("invalid reference: %w", err)
				}
			}
			ctx, err := a.cfg.ResolverContext(ref)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(in)
			}

			p, err := a.parser()
			if err != nil {
				return err
			}
			var matches []ontology.Match
			if all {
				matches, err = p.ParseAllCandidates(text, ctx, order)
			} else {
				matches, err = p.ParseWithKindOrder(text, ctx, order)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range matches {
				latent := ""
				if m.Latent {
					latent = " (latent)"
				}
				fmt.Fprintf(w, "%d-%d\t%s\t%q\t%s%s\n",
					m.CharRange.Start, m.CharRange.End, m.Kind, m.Text, formatValue(m.Value), latent)
			}
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVarP(&kinds, "kinds", "k", "", "Comma separated kind priority, e.g. time,number")
	f.BoolVar(&all, "all", false, "Also report overlapping and latent candidates")
	f.BoolVar(&asJSON, "json", false, "Print matches as JSON")
	f.StringVar(&reference, "reference", "", "Reference time in RFC 3339 (default now)")
	return cmd
}

func formatValue(v output.Output) string {
	switch o := v.(type) {
	case output.TimeOutput:
		return fmt.Sprintf("%s [%s]", o.Moment.Format(time.RFC3339), o.Grain)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func newAnalyseCmd(g *globals) *cobra.Command {
	var (
		kinds  string
		save   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyse [corpus.yaml]",
		Short: "Evaluate the parser over an example corpus (default: built-in)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if a.lang != grammar.EN {
				return fmt.Errorf("no corpus format for %s", a.lang)
			}

			corpus, err := en.DefaultCorpus()
			if len(args) == 1 {
				data, rerr := os.ReadFile(args[0])
				if rerr != nil {
					return rerr
				}
				corpus, err = en.ParseCorpus(data)
			}
			if err != nil {
				return err
			}

			order, err := a.cfg.KindOrder()
			if err != nil {
				return err
			}
			if kinds != "" {
				if order, err = output.ParseKinds(kinds); err != nil {
					return err
				}
			}

			p, err := a.parser()
			if err != nil {
				return err
			}
			report, err := p.AnalyseWithKindOrder(corpus.Examples, corpus.Context(), order)
			if err != nil {
				return err
			}

			if save {
				s, err := a.store()
				if err != nil {
					return err
				}
				defer s.Close()
				run, entries := store.NewRun(string(a.lang), order, corpus.Reference, report)
				if err := s.SaveRun(run, entries); err != nil {
					return err
				}
				a.log.Info("run saved", "id", run.ID, "driver", a.cfg.Store.Driver)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "examples:  %d\n", report.Examples)
			fmt.Fprintf(out, "parsed:    %d\n", report.Parsed)
			fmt.Fprintf(out, "covered:   %d\n", report.FullyCovered)
			fmt.Fprintf(out, "correct:   %d (%.1f%%)\n", report.Correct, 100*report.Accuracy())
			fmt.Fprintf(out, "coverage:  %.1f%% (score %.0f)\n", 100*report.Coverage, report.CoverageScore)
			fmt.Fprintf(out, "failures:  %d\n", report.ResolutionFailures)
			for _, k := range report.KindsByCount() {
				fmt.Fprintf(out, "  %-14s %d\n", k, report.Kinds[k])
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&kinds, "kinds", "k", "", "Comma separated kind priority")
	f.BoolVar(&save, "save", false, "Store the run")
	f.BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newTrainCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the scoring model and store it in the model directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			_, stats, err := a.trainAndSave()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), a.lang, stats)
			return nil
		},
	}
}

func printStats(w io.Writer, lang grammar.Lang, stats model.TrainStats) {
	fmt.Fprintf(w, "trained %s on %d examples (%d positive, %d negative nodes)\n",
		lang, stats.Examples, stats.Positive, stats.Negative)
	for _, text := range stats.Unmatched {
		fmt.Fprintf(w, "  unmatched: %q\n", text)
	}
}

func newInfoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the grammar of the configured language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup(cmd)
			if err != nil {
				return err
			}
			rs, err := a.reg.Rules(a.lang)
			if err != nil {
				return err
			}
			_, merr := a.reg.ScorerModel(a.lang)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "languages:     %v\n", a.reg.Langs())
			fmt.Fprintf(out, "language:      %s\n", a.lang)
			fmt.Fprintf(out, "rules:         %d\n", rs.NumRules())
			fmt.Fprintf(out, "text patterns: %d\n", rs.NumTextPatterns())
			fmt.Fprintf(out, "model:         %s (%s)\n", grammar.ModelPath(a.lang), modelState(merr))
			return nil
		},
	}
}

func modelState(err error) string {
	switch {
	case err == nil:
		return "trained"
	case errors.Is(err, model.ErrModelNotFound):
		return "missing"
	}
	return err.Error()
}

func newRunsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, show or delete saved analysis runs",
	}
	withStore := func(cmd *cobra.Command, fn func(a *app, s store.Storer) error) error {
		a, err := g.setup(cmd)
		if err != nil {
			return err
		}
		s, err := a.store()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(a, s)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List runs of the configured language, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(a *app, s store.Storer) error {
				runs, err := s.ListRuns(string(a.lang))
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCREATED\tEXAMPLES\tCORRECT\tCOVERAGE")
				for _, r := range runs {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f%%\n", r.ID,
						time.UnixMilli(r.CreatedAt).Format(time.RFC3339), r.Examples, r.Correct, 100*r.Coverage)
				}
				return w.Flush()
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a run and its entries as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(a *app, s store.Storer) error {
				run, err := s.GetRun(args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				entries, err := s.ListEntries(run.ID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"run": run, "entries": entries})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(a *app, s store.Storer) error {
				return s.DeleteRun(args[0])
			})
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
