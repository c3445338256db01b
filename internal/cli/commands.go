package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/specmodel/analysis"
	"github.com/katalvlaran/specmodel/fitting"
	"github.com/katalvlaran/specmodel/internal/dataset"
	"github.com/katalvlaran/specmodel/model"
	"github.com/katalvlaran/specmodel/modelio"
	"github.com/katalvlaran/specmodel/session"
)

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered component kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tMODULE\tPARAMETERS")
			for _, k := range a.reg.Kinds() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k, k.Module(), strings.Join(k.Schema(), ", "))
			}
			return tw.Flush()
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "check MODEL",
		Short: "Parse a model file and print it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := modelio.ParseFormat(format)
			if err != nil {
				return err
			}
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			out, err := modelio.Encode(m, f, modelio.WithRegistry(a.reg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	c.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return c
}

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval MODEL DATA",
		Short: "Print the model evaluated at the x column of DATA",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			ds, err := dataset.ReadFile(args[1])
			if err != nil {
				return err
			}
			return writeColumns(cmd.OutOrStdout(), ds.X, m.Evaluate(ds.X))
		},
	}
}

func (a *app) fitCmd() *cobra.Command {
	var (
		output      string
		strict      bool
		metricsFile string
	)

	c := &cobra.Command{
		Use:   "fit MODEL DATA",
		Short: "Fit a model to a spectrum",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.ReadFile(args[1])
			if err != nil {
				return err
			}

			var (
				metrics *fitting.Metrics
				preg    *prometheus.Registry
			)
			if metricsFile != "" {
				preg = prometheus.NewRegistry()
				if metrics, err = fitting.NewMetrics(preg); err != nil {
					return err
				}
			}

			s := a.newSession(session.WithMetrics(metrics))
			if err = s.LoadFromFile(args[0]); err != nil {
				return err
			}
			if err = s.SetData(ds.X, ds.Y); err != nil {
				return err
			}
			res, err := s.Fit(cmd.Context(), a.cfg.Fit.Fitter, nil, nil)
			if err != nil {
				return err
			}
			if err = writeResult(cmd.OutOrStdout(), res, s.Components()); err != nil {
				return err
			}

			if metricsFile != "" {
				if err = prometheus.WriteToTextfile(metricsFile, preg); err != nil {
					return err
				}
			}
			if output != "" {
				if err = s.SaveToFile(output); err != nil {
					return err
				}
			}
			if strict && !res.Converged {
				return fmt.Errorf("%w: %s", errNotConverged, res.Reason)
			}
			return nil
		},
	}
	f := c.Flags()
	f.StringVarP(&output, "output", "o", "", "write the fitted model here (codec by extension)")
	f.String("fitter", "", fmt.Sprintf("fitter name: %s", strings.Join(fitting.Names(), ", ")))
	f.Int("max-iterations", fitting.DefaultOptions().MaxIterations, "iteration limit")
	f.BoolVar(&strict, "strict", false, "exit non-zero when the fit does not converge")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus text-format fit metrics here")
	return c
}

func (a *app) statsCmd() *cobra.Command {
	var lo, hi float64

	c := &cobra.Command{
		Use:   "stats DATA",
		Short: "Summary statistics of a spectral region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, ys := analysis.Extract(ds.X, ds.Y, lo, hi)
			st := analysis.Stats(ys)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "npoints\t%d\n", st.NPoints)
			fmt.Fprintf(tw, "mean\t%g\n", st.Mean)
			fmt.Fprintf(tw, "median\t%g\n", st.Median)
			fmt.Fprintf(tw, "stddev\t%g\n", st.StdDev)
			fmt.Fprintf(tw, "total\t%g\n", st.Total)
			return tw.Flush()
		},
	}
	c.Flags().Float64Var(&lo, "from", 0, "region start (inclusive)")
	c.Flags().Float64Var(&hi, "to", 0, "region end (exclusive)")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func (a *app) ewCmd() *cobra.Command {
	var cont1, cont2, line string

	c := &cobra.Command{
		Use:   "ew DATA",
		Short: "Line flux and equivalent width against two continuum regions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.ReadFile(args[0])
			if err != nil {
				return err
			}
			var regions [3][2]float64
			for i, r := range []string{cont1, cont2, line} {
				if regions[i], err = parseRange(r); err != nil {
					return err
				}
			}
			_, c1 := analysis.Extract(ds.X, ds.Y, regions[0][0], regions[0][1])
			_, c2 := analysis.Extract(ds.X, ds.Y, regions[1][0], regions[1][1])
			lx, ly := analysis.Extract(ds.X, ds.Y, regions[2][0], regions[2][1])

			flux, ew, err := analysis.EquivalentWidth(analysis.Stats(c1), analysis.Stats(c2), lx, ly)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "flux\t%g\new\t%g\n", flux, ew)
			return nil
		},
	}
	c.Flags().StringVar(&cont1, "cont1", "", "first continuum region LO:HI")
	c.Flags().StringVar(&cont2, "cont2", "", "second continuum region LO:HI")
	c.Flags().StringVar(&line, "line", "", "line region LO:HI")
	for _, name := range []string{"cont1", "cont2", "line"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func (a *app) smoothCmd() *cobra.Command {
	var gaussian, box float64

	c := &cobra.Command{
		Use:   "smooth DATA",
		Short: "Convolve the flux with a Gaussian or boxcar kernel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				k   analysis.Kernel
				err error
			)
			if cmd.Flags().Changed("gaussian") {
				k, err = analysis.GaussianKernel(gaussian)
			} else {
				k, err = analysis.BoxKernel(box)
			}
			if err != nil {
				return err
			}
			ds, err := dataset.ReadFile(args[0])
			if err != nil {
				return err
			}
			return writeColumns(cmd.OutOrStdout(), ds.X, analysis.Smooth(ds.Y, k))
		},
	}
	c.Flags().Float64Var(&gaussian, "gaussian", 0, "Gaussian kernel stddev in samples")
	c.Flags().Float64Var(&box, "box", 0, "boxcar kernel width in samples")
	c.MarkFlagsMutuallyExclusive("gaussian", "box")
	c.MarkFlagsOneRequired("gaussian", "box")
	return c
}

func (a *app) newCmd() *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "new KIND... DATA",
		Short: "Create a model of the given kinds seeded from a spectrum",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, data := args[:len(args)-1], args[len(args)-1]
			ds, err := dataset.ReadFile(data)
			if err != nil {
				return err
			}
			s := a.newSession()
			if err = s.SetData(ds.X, ds.Y); err != nil {
				return err
			}
			for _, k := range kinds {
				if _, err = s.AddComponent(k); err != nil {
					return err
				}
			}
			if err = s.SaveToFile(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d components to %s\n", len(kinds), output)
			return nil
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "model file to write (required)")
	_ = c.MarkFlagRequired("output")
	return c
}

// newSession builds a session from the loaded configuration.
func (a *app) newSession(opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithRegistry(a.reg),
		session.WithLogger(a.log),
		session.WithFitOptions(a.cfg.FitOptions()),
		session.WithProtectedBaseline(a.cfg.Session.ProtectBaseline),
	}
	return session.New(append(base, opts...)...)
}

// writeResult prints a fit summary and the fitted free parameters.
func writeResult(w io.Writer, res *fitting.Result, comps []*model.Component) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "fitter\t%s\n", res.Fitter)
	fmt.Fprintf(tw, "converged\t%t (%s)\n", res.Converged, res.Reason)
	fmt.Fprintf(tw, "iterations\t%d\n", res.Iterations)
	fmt.Fprintf(tw, "cost\t%.6g -> %.6g\n", res.InitialCost, res.FinalCost)
	for i, ref := range res.Params {
		c := comps[ref.Component]
		label := c.Kind.String()
		if c.Name != "" {
			label = c.Name
		}
		fmt.Fprintf(tw, "m[%d].%s\t%.10g\t%s\n", ref.Component, c.Params[ref.Param].Name, res.Values[i], label)
	}
	return tw.Flush()
}

func writeColumns(w io.Writer, x, y []float64) error {
	for i := range x {
		if _, err := fmt.Fprintf(w, "%g\t%g\n", x[i], y[i]); err != nil {
			return err
		}
	}
	return nil
}

// parseRange reads "LO:HI".
func parseRange(s string) ([2]float64, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return [2]float64{}, fmt.Errorf("range %q: want LO:HI", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("range %q: %w", s, err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("range %q: %w", s, err)
	}
	if a >= b {
		return [2]float64{}, fmt.Errorf("range %q: empty", s)
	}
	return [2]float64{a, b}, nil
}
