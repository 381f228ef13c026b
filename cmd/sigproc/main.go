package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oyvlun/sigproc/internal/config"
	"github.com/oyvlun/sigproc/internal/dataset"
	"github.com/oyvlun/sigproc/internal/depth"
	"github.com/oyvlun/sigproc/internal/prompt"
	"github.com/oyvlun/sigproc/internal/timeconv"
	"github.com/oyvlun/sigproc/internal/viz"
)

var (
	outPath    string
	onMissing  string
	configFile string
	density    float64
	fieldName  string
	filePath   string
	reverse    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sigproc",
		Short: "signature instrument data processing",
	}

	depthCmd := &cobra.Command{
		Use:   "depth [dataset.json]",
		Short: "compute transducer depth from pressure",
		Args:  cobra.ExactArgs(1),
		RunE:  runDepth,
	}
	depthCmd.Flags().StringVar(&outPath, "out", "", "output path (default: overwrite input)")
	depthCmd.Flags().StringVar(&onMissing, "on-missing", "", "missing-field policy: ask, continue or abort")
	depthCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	depthCmd.Flags().Float64Var(&density, "density", 0, "fallback ocean density (kg/m3)")

	infoCmd := &cobra.Command{
		Use:   "info [dataset.json]",
		Short: "list dataset fields",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [dataset.json]",
		Short: "plot burst-averaged field over time",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&fieldName, "field", depth.FieldDepth, "grid field to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [dataset.json]",
		Short: "export a grid field to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}
	exportCSVCmd.Flags().StringVar(&fieldName, "field", depth.FieldDepth, "grid field to export")

	timeconvCmd := &cobra.Command{
		Use:   "timeconv [day-count...]",
		Short: "convert Matlab day counts to epoch days",
		RunE:  runTimeconv,
	}
	timeconvCmd.Flags().BoolVar(&reverse, "reverse", false, "convert epoch days to Matlab day counts")
	timeconvCmd.Flags().StringVar(&filePath, "file", "", "convert the time series of a dataset file in place")

	setLatCmd := &cobra.Command{
		Use:   "set-lat [dataset.json] [degrees]",
		Short: "set the instrument latitude field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setScalarField(args[0], args[1], depth.FieldLatitude,
				dataset.Attrs{"units": "degrees_north"})
		},
	}

	setAtmoCmd := &cobra.Command{
		Use:   "set-atmo [dataset.json] [db]",
		Short: "set a fixed atmospheric pressure field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setScalarField(args[0], args[1], depth.FieldAtmosphericPressure,
				dataset.Attrs{"units": "db"})
		},
	}

	setDensityCmd := &cobra.Command{
		Use:   "set-density [dataset.json] [kg/m3]",
		Short: "set a fixed ocean density field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setScalarField(args[0], args[1], depth.FieldDensity,
				dataset.Attrs{"units": "kg m-3"})
		},
	}

	rootCmd.AddCommand(depthCmd, infoCmd, plotCmd, exportCSVCmd, timeconvCmd,
		setLatCmd, setAtmoCmd, setDensityCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDepth(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if onMissing != "" {
		cfg.OnMissing = onMissing
	}
	if density != 0 {
		cfg.FallbackDensity = density
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	var resolver depth.Resolver
	switch cfg.OnMissing {
	case config.OnMissingContinue:
		resolver = depth.Scripted{Default: depth.Continue}
	case config.OnMissingAbort:
		resolver = depth.Scripted{Default: depth.Abort}
	default:
		resolver = prompt.NewTerminal(os.Stdin, os.Stdout)
	}

	calc := depth.New(resolver)
	calc.SetFallbackDensity(cfg.FallbackDensity)

	if _, err := calc.Compute(ds); err != nil {
		return err
	}

	dest := outPath
	if dest == "" {
		dest = path
	}
	if err := dataset.Save(dest, ds); err != nil {
		return err
	}

	g, _ := ds.Scalar(depth.FieldGravity)
	df, _ := ds.Field(depth.FieldDepth)
	s := dataset.Summarize(df)
	fmt.Println(viz.Title.Render("depth computed"))
	fmt.Printf("  g: %.4f m/s^2\n", g)
	fmt.Printf("  depth: mean %.3f m, range %.3f..%.3f m (%d values)\n",
		s.Mean, s.Min, s.Max, s.N)
	fmt.Printf("  written to %s\n", dest)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND\tDIMS\tUNITS\tMEAN\tSTD")

	for _, name := range ds.Names() {
		f, _ := ds.Field(name)
		s := dataset.Summarize(f)
		dims := ""
		for i, d := range f.Dims() {
			if i > 0 {
				dims += ","
			}
			dims += d
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%.4f\n",
			name, f.Kind, dims, f.Attrs["units"], s.Mean, s.Std)
	}

	return w.Flush()
}

func runPlot(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(args[0])
	if err != nil {
		return err
	}

	f, ok := ds.Field(fieldName)
	if !ok {
		return fmt.Errorf("no field %q in dataset (run \"sigproc depth\" first?)", fieldName)
	}
	if f.Kind != dataset.Grid {
		return fmt.Errorf("field %q is %s, not a grid", fieldName, f.Kind)
	}

	means := dataset.TimeMeans(f.Grid)
	caption := fmt.Sprintf("%s (burst mean", fieldName)
	if units := f.Attrs["units"]; units != "" {
		caption += ", " + units
	}
	caption += ")"

	fmt.Println(viz.Plot(means, caption))
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	return dataset.ExportCSV(os.Stdout, ds, fieldName)
}

func runTimeconv(cmd *cobra.Command, args []string) error {
	if filePath != "" {
		return convertTimeSeries(filePath)
	}
	if len(args) == 0 {
		return fmt.Errorf("provide day-count values or --file")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tCONVERTED\tUTC")

	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid day count %q: %w", arg, err)
		}
		var out float64
		if reverse {
			out = timeconv.EpochToMatDays(v)
			fmt.Fprintf(w, "%.6f\t%.6f\t%s\n", v, out,
				timeconv.EpochDaysToTime(v).Format("2006-01-02 15:04:05"))
		} else {
			out = timeconv.MatToEpochDays(v)
			fmt.Fprintf(w, "%.6f\t%.6f\t%s\n", v, out,
				timeconv.MatToTime(v).Format("2006-01-02 15:04:05"))
		}
	}

	return w.Flush()
}

func convertTimeSeries(path string) error {
	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	f, ok := ds.Field("time")
	if !ok || f.Kind != dataset.Series {
		return fmt.Errorf("no time series in %s", path)
	}

	converted := make([]float64, len(f.Series))
	for i, v := range f.Series {
		if reverse {
			converted[i] = timeconv.EpochToMatDays(v)
		} else {
			converted[i] = timeconv.MatToEpochDays(v)
		}
	}

	attrs := dataset.Attrs{"units": "days since 1970-01-01"}
	if reverse {
		attrs["units"] = "days since 00-Jan-0000"
	}
	ds.SetSeries("time", converted, attrs)

	if err := dataset.Save(path, ds); err != nil {
		return err
	}
	fmt.Printf("converted %d time steps in %s\n", len(converted), path)
	return nil
}

func setScalarField(path, raw, field string, attrs dataset.Attrs) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", raw, err)
	}

	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}

	ds.SetScalar(field, v, attrs)

	if err := dataset.Save(path, ds); err != nil {
		return err
	}
	fmt.Printf("set %s = %v in %s\n", field, v, path)
	return nil
}
