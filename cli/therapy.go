package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/giygas/cvdrisk-api/therapy"
	"github.com/giygas/cvdrisk-api/validation"
)

func adjustLDLCmd(opts *globalOptions) *cobra.Command {
	var (
		baseline float64
		sel      therapy.TherapySelection
		statin   string
	)

	cmd := &cobra.Command{
		Use:   "adjust-ldl",
		Short: "Anticipated LDL-C under a lipid-lowering therapy",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			opts.initOfflineLogging()

			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			v := validation.NewInputValidator()
			sel.Statin = therapy.StatinID(statin)
			resolved, selErr := v.ResolveSelection(sel, cat)
			if err := validation.Combine(v.ValidateBaselineLDL(baseline), selErr); err != nil {
				return describeError(err)
			}

			lipids := cat.AdjustLipids(baseline, resolved)
			out := c.OutOrStdout()
			if opts.jsonOutput {
				lipids.AnticipatedLDL = math.Round(lipids.AnticipatedLDL*100) / 100
				lipids.UnflooredLDL = math.Round(lipids.UnflooredLDL*100) / 100
				return printJSON(out, lipids)
			}

			fmt.Fprintf(out, "Anticipated LDL-C: %.2f mmol/L", lipids.AnticipatedLDL)
			if lipids.FloorApplied {
				fmt.Fprintf(out, " (floored from %.2f)", lipids.UnflooredLDL)
			}
			fmt.Fprintln(out)

			e := therapy.EvaluateEligibility(therapy.EligibilityContext{
				AnticipatedLDL: lipids.AnticipatedLDL,
				Triglycerides:  resolved.Triglycerides,
			})
			fmt.Fprintf(out, "PCSK9i/inclisiran: %s\n", describeRule(e.PCSK9))
			if resolved.Triglycerides != 0 {
				fmt.Fprintf(out, "Icosapent ethyl:   %s\n", describeRule(e.IcosapentEthyl))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&baseline, "ldl", 0, "baseline LDL-C, mmol/L")
	f.StringVar(&statin, "statin", string(therapy.StatinNone), "statin id or name from the catalog")
	f.BoolVar(&sel.Ezetimibe, "ezetimibe", false, "add ezetimibe")
	f.BoolVar(&sel.BempedoicAcid, "bempedoic-acid", false, "add bempedoic acid (not modelled)")
	f.BoolVar(&sel.PCSK9, "pcsk9", false, "add a PCSK9 inhibitor (not modelled)")
	f.BoolVar(&sel.Inclisiran, "inclisiran", false, "add inclisiran (not modelled)")
	f.Float64Var(&sel.Triglycerides, "tg", 0, "fasting triglycerides, mmol/L")
	_ = cmd.MarkFlagRequired("ldl")

	return cmd
}

func describeRule(r therapy.Rule) string {
	if r.Eligible {
		return "eligible, " + r.Reason
	}
	return "not eligible, " + r.Reason
}

func therapiesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "therapies",
		Short: "List the therapy catalog",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			opts.initOfflineLogging()

			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, map[string]any{
					"statins": cat.Statins(),
					"addOns":  cat.AddOns(),
				})
			}

			fmt.Fprintln(out, "Statins:")
			for _, s := range cat.Statins() {
				fmt.Fprintf(out, "  %-16s %-22s -%.0f%%\n", s.ID, s.Name, s.ReductionFactor*100)
			}
			fmt.Fprintln(out, "Add-ons:")
			for _, a := range cat.AddOns() {
				effect := "not modelled"
				if a.ReductionFactor != nil {
					effect = fmt.Sprintf("-%.0f%%", *a.ReductionFactor*100)
				}
				fmt.Fprintf(out, "  %-16s %-22s %s\n", a.ID, a.Name, effect)
			}
			return nil
		},
	}
}
