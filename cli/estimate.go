package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giygas/cvdrisk-api/risk"
	"github.com/giygas/cvdrisk-api/validation"
)

func estimateCmd(opts *globalOptions) *cobra.Command {
	var (
		p   risk.PatientProfile
		sex string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate 10-year and 5-year cardiovascular risk",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			opts.initOfflineLogging()

			if parsed, err := risk.ParseSex(sex); err == nil {
				p.Sex = parsed
			} else {
				p.Sex = risk.Sex(sex)
			}

			if err := validation.NewInputValidator().ValidateProfile(p); err != nil {
				return describeError(err)
			}

			result := risk.Assess(p)
			out := c.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, result)
			}

			fmt.Fprintf(out, "10-year risk: %.1f%%\n", result.TenYearRiskPercent)
			fmt.Fprintf(out, "5-year risk:  %.1f%%\n", result.FiveYearRiskPercent)
			fmt.Fprintf(out, "Linear predictor: %.4f\n", result.LinearPredictor)
			fmt.Fprintln(out, "Contributions:")
			for _, contrib := range result.Contributions {
				fmt.Fprintf(out, "  %-18s %8.3f\n", contrib.Factor, contrib.Term)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.Age, "age", 0, "age in years (30-90)")
	f.StringVar(&sex, "sex", "", "male or female")
	f.Float64Var(&p.SystolicBP, "sbp", risk.DefaultSystolicBP, "systolic blood pressure, mmHg")
	f.Float64Var(&p.TotalCholesterol, "tc", 0, "total cholesterol, mmol/L")
	f.Float64Var(&p.HDLCholesterol, "hdl", 0, "HDL cholesterol, mmol/L")
	f.Float64Var(&p.LDLBaseline, "ldl", 0, "baseline LDL cholesterol, mmol/L")
	f.Float64Var(&p.EGFR, "egfr", 0, "eGFR, mL/min/1.73m²")
	f.Float64Var(&p.CRP, "crp", 0, "hs-CRP, mg/L")
	f.BoolVar(&p.Smoker, "smoker", false, "current smoker")
	f.BoolVar(&p.Diabetic, "diabetic", false, "diabetes mellitus")
	f.IntVar(&p.VascularBedCount, "vascular-beds", 0, "number of affected vascular beds (0-3)")

	for _, name := range []string{"age", "sex", "tc", "hdl", "ldl", "egfr", "crp"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func fiveYearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "five-year <ten-year-risk-percent>",
		Short: "Convert a 10-year risk percentage to its 5-year equivalent",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			opts.initOfflineLogging()

			tenYear, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return &validation.FieldError{Field: "tenYear", Value: args[0], Reason: "must be a number"}
			}
			if err := validation.NewInputValidator().ValidateTenYearRisk(tenYear); err != nil {
				return err
			}

			fiveYear := risk.ConvertToFiveYear(tenYear)
			out := c.OutOrStdout()
			if opts.jsonOutput {
				return printJSON(out, map[string]float64{
					"tenYearRiskPercent":  tenYear,
					"fiveYearRiskPercent": fiveYear,
				})
			}
			fmt.Fprintf(out, "5-year risk: %.1f%%\n", fiveYear)
			return nil
		},
	}
}
