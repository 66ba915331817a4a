package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"frieren/internal/domain"
	"frieren/internal/intake"
	"frieren/internal/pricing"
)

// frieren quote --frontend animations --backend modern --feature user --feature gridfs --payment
func newQuoteCmd() *cobra.Command {
	var (
		frontend string
		backend  string
		features []string
		payment  bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a bundle from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := intake.New(pricing.Default)
			f.SetFrontend(frontend)
			f.SetBackend(backend)
			for _, ft := range features {
				f.ToggleFeature(ft, true)
			}
			f.SetPayment(payment)
			if !f.ValidateStep(intake.StepServices) {
				keys := make([]string, 0, len(f.Errors))
				for k := range f.Errors {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", k, f.Errors[k])
				}
				return errors.New("invalid selection")
			}
			priced, total := f.Priced()
			return printQuote(cmd.OutOrStdout(), priced, total)
		},
	}
	cmd.Flags().StringVar(&frontend, "frontend", "modern", "frontend tier: modern, animations, everything")
	cmd.Flags().StringVar(&backend, "backend", "", "backend tier: modern, premium")
	cmd.Flags().StringSliceVar(&features, "feature", nil, "database feature: user, gridfs, combo (repeatable)")
	cmd.Flags().BoolVar(&payment, "payment", false, "include payment integration")
	return cmd
}

func printQuote(out io.Writer, s domain.Services, total int64) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frontend\t%s\t₹%d\n", s.Frontend.Tier, s.Frontend.Price)
	if s.Backend.Tier != "" {
		fmt.Fprintf(w, "backend\t%s\t₹%d\n", s.Backend.Tier, s.Backend.Price)
	}
	if len(s.Database.Features) > 0 {
		fmt.Fprintf(w, "database\t%v\t₹%d\n", s.Database.Features, s.Database.Price)
	}
	if s.Payment.Included {
		fmt.Fprintf(w, "payment\tincluded\t₹%d\n", s.Payment.Price)
	}
	fmt.Fprintf(w, "total\t\t₹%d\n", total)
	return w.Flush()
}
