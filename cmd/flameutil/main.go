package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kryv/flame-utils/internal/analysis"
	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/config"
	"github.com/kryv/flame-utils/internal/output"
	"github.com/kryv/flame-utils/internal/storage"
	"github.com/kryv/flame-utils/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	fieldsFlag string
	configFile string
	csvOut     string
	plotField  string
	component  int
	plotWidth  int
	plotHeight int

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flameutil",
		Short: "post-process moment-matrix beam propagation results",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger = zap.NewNop()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	importCmd := &cobra.Command{
		Use:   "import [results.json]",
		Short: "store a propagation result dump as a run",
		Args:  cobra.ExactArgs(1),
		RunE:  importRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "list the beam quantity vocabulary",
		RunE:  listFields,
	}

	collectCmd := &cobra.Command{
		Use:   "collect [run_id]",
		Short: "collect beam quantities across all monitor points",
		Args:  cobra.ExactArgs(1),
		RunE:  collectRun,
	}
	collectCmd.Flags().StringVar(&fieldsFlag, "fields", "", "comma-separated field names")
	collectCmd.Flags().StringVar(&configFile, "config", "", "collection profile (yaml)")
	collectCmd.Flags().StringVar(&csvOut, "csv", "", "write collected series to CSV file")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one quantity along the beamline",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "x0_rms", "field to plot")
	plotCmd.Flags().IntVar(&component, "component", 0, "vector component index")
	plotCmd.Flags().IntVar(&plotWidth, "width", config.DefaultPlotWidth, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", config.DefaultPlotHght, "plot height")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "interactive field viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&fieldsFlag, "fields", "", "comma-separated field names")
	viewCmd.Flags().StringVar(&configFile, "config", "", "collection profile (yaml)")

	twissCmd := &cobra.Command{
		Use:   "twiss [run_id]",
		Short: "Twiss parameters at the last monitor point",
		Args:  cobra.ExactArgs(1),
		RunE:  twissRun,
	}

	rootCmd.AddCommand(importCmd, listCmd, showCmd, fieldsCmd, collectCmd, plotCmd, viewCmd, twissCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func importRun(cmd *cobra.Command, args []string) error {
	res, lattice, err := storage.ImportResult(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := st.Save(lattice, res)
	if err != nil {
		return err
	}

	logger.Info("imported run",
		zap.String("run_id", runID),
		zap.Int("points", len(res)))

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d\n", len(res))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLATTICE\tTIME\tPOINTS\tCHARGE STATES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Lattice,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.ChargeStates,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listFields(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND")
	for _, name := range beamstate.Fields() {
		kind, _ := beamstate.FieldKind(name)
		fmt.Fprintf(w, "%s\t%s\n", name, kind)
	}
	return w.Flush()
}

// requestedFields resolves the field request from --fields, --config or
// the default profile, in that order.
func requestedFields() ([]string, error) {
	if fieldsFlag != "" {
		fields := strings.Split(fieldsFlag, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		return fields, nil
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		return cfg.Fields, nil
	}
	return config.DefaultConfig().Fields, nil
}

func collectRun(cmd *cobra.Command, args []string) error {
	fields, err := requestedFields()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	logger.Info("collecting",
		zap.String("run_id", args[0]),
		zap.Strings("fields", fields),
		zap.Int("points", len(res)))

	data, err := output.CollectData(res, fields...)
	if err != nil {
		return err
	}

	locs := make([]string, len(res))
	for i, p := range res {
		locs[i] = p.Loc
	}

	if csvOut != "" {
		if err := storage.ExportCSV(csvOut, locs, fields, data); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND\tPOINTS\tMIN\tMAX\tMEAN")
	for _, name := range fields {
		series := data[name]
		switch series.Kind() {
		case beamstate.KindScalar:
			ext, err := analysis.SeriesExtrema(series, locs)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\t%d\t-\t-\t-\n", name, series.Kind(), len(series))
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.6g\t%.6g\t%.6g\n",
				name, series.Kind(), len(series), ext.Min, ext.Max, ext.Mean)
		default:
			fmt.Fprintf(w, "%s\t%s\t%d\t-\t-\t-\n", name, series.Kind(), len(series))
		}
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(res) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := output.CollectData(res, plotField)
	if err != nil {
		return err
	}
	series := data[plotField]

	var vals []float64
	caption := plotField
	switch series.Kind() {
	case beamstate.KindScalar:
		vals, err = series.Floats()
	case beamstate.KindVector:
		vals, err = series.Component(component)
		caption = fmt.Sprintf("%s[%d]", plotField, component)
	default:
		return fmt.Errorf("field %q is a %s, not plottable", plotField, series.Kind())
	}
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %s\n", meta.Lattice)
	fmt.Printf("points: %d\n\n", len(res))

	graph := asciigraph.Plot(vals,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)

	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	fields, err := requestedFields()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	data, err := output.CollectData(res, fields...)
	if err != nil {
		return err
	}

	locs := make([]string, len(res))
	for i, p := range res {
		locs[i] = p.Loc
	}

	return viz.Run(viz.NewModel(args[0], locs, fields, data))
}

func twissRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(res) == 0 {
		return errors.New("run has no monitor points")
	}

	norm, err := output.ConvertResults(res)
	if err != nil {
		return err
	}

	last := norm[len(norm)-1]
	state := last.State.(*beamstate.BeamState)

	fmt.Printf("monitor: %s (pos %.4f m)\n\n", last.Loc, state.Pos)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLANE\tALPHA\tBETA\tGAMMA\tEMITTANCE")
	for _, plane := range []analysis.Plane{analysis.PlaneX, analysis.PlaneY, analysis.PlaneZ} {
		tw, err := analysis.TwissOf(state, plane)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", plane)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.6g\t%.6g\n",
			plane, tw.Alpha, tw.Beta, tw.Gamma, tw.Emittance)
	}
	return w.Flush()
}
