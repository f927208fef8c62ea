// Command dbscan clusters a CSV file or a stored dataset and prints the
// quality report. Optional outputs are an echarts HTML scatter, a gonum/plot
// image and a serial console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/dbscan/internal/config"
	"github.com/banshee-data/dbscan/internal/dataset"
	"github.com/banshee-data/dbscan/internal/dbscan"
	"github.com/banshee-data/dbscan/internal/monitoring"
	"github.com/banshee-data/dbscan/internal/report"
	"github.com/banshee-data/dbscan/internal/serialmux"
	"github.com/banshee-data/dbscan/internal/version"
)

// console is the part of serialmux.Console used here.
type console interface {
	WriteReport(*dbscan.QualityReport) error
	Serve(context.Context, *dbscan.Clusterer) error
	Close() error
}

// openConsole is replaced in tests.
var openConsole = func(path string, opts serialmux.PortOptions) (console, error) {
	c, err := serialmux.NewRealConsole(path, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type options struct {
	configPath string
	csvPath    string
	dbPath     string
	name       string
	importOnly bool
	list       bool
	delete     bool
	exportPath string
	eps        float64
	minPts     int
	metric     string
	p          float64
	predict    string
	jsonOut    bool
	partition  bool
	htmlPath   string
	plotPath   string
	serialPort string
	serve      bool
	verbose    bool
	version    bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("dbscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Path to a clustering config JSON file")
	fs.StringVar(&o.csvPath, "csv", "", "CSV file of points, one per row. The first row is skipped as a header only when none of its fields is numeric")
	fs.StringVar(&o.dbPath, "db", "", "SQLite dataset store")
	fs.StringVar(&o.name, "dataset", "", "Dataset name in the store")
	fs.BoolVar(&o.importOnly, "import", false, "Store the -csv file in -db as -dataset and exit")
	fs.BoolVar(&o.list, "list", false, "List the datasets in -db and exit")
	fs.BoolVar(&o.delete, "delete", false, "Delete -dataset from -db and exit")
	fs.StringVar(&o.exportPath, "export", "", "Write -dataset from -db to this CSV file (\"-\" for stdout) and exit")
	fs.Float64Var(&o.eps, "eps", dbscan.DefaultEps, "Neighbourhood radius")
	fs.IntVar(&o.minPts, "min-pts", dbscan.DefaultMinPts, "Minimum neighbourhood size of a core point")
	fs.StringVar(&o.metric, "metric", "euclidean", "Distance metric: euclidean, minkowski, manhattan, chebyshev, canberra")
	fs.Float64Var(&o.p, "p", dbscan.DefaultMinkowskiP, "Minkowski exponent")
	fs.StringVar(&o.predict, "predict", "", "Vectors to classify, e.g. \"1,2;3,4\"")
	fs.BoolVar(&o.jsonOut, "json", false, "Print the report as JSON")
	fs.BoolVar(&o.partition, "partition", false, "Print cluster membership by point index")
	fs.StringVar(&o.htmlPath, "html", "", "Write an interactive scatter chart to this HTML file")
	fs.StringVar(&o.plotPath, "png", "", "Write a scatter plot image (.png or .svg)")
	fs.StringVar(&o.serialPort, "serial", "", "Serial port to write the report to")
	fs.BoolVar(&o.serve, "serve", false, "Keep answering commands on -serial until interrupted")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// clusterConfig loads -config, or the defaults, and overlays explicit flags.
func (o *options) clusterConfig() (*config.ClusterConfig, error) {
	cfg := config.DefaultClusterConfig()
	if o.configPath != "" {
		loaded, err := config.LoadClusterConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(loaded)
	}

	flags := config.EmptyClusterConfig()
	if o.set["eps"] {
		flags.Epsilon = &o.eps
	}
	if o.set["min-pts"] {
		flags.MinPts = &o.minPts
	}
	if o.set["metric"] {
		flags.Metric = &o.metric
	}
	if o.set["p"] {
		flags.MinkowskiP = &o.p
	}
	if o.set["serial"] {
		flags.SerialPort = &o.serialPort
	}
	cfg.Merge(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	log.SetFlags(log.LstdFlags)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("dbscan: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	monitoring.SetVerbose(o.verbose)

	if o.list || o.importOnly || o.delete || o.exportPath != "" {
		return manageStore(o, stdout)
	}

	cfg, err := o.clusterConfig()
	if err != nil {
		return err
	}
	params, err := cfg.ToParams()
	if err != nil {
		return err
	}

	points, err := loadPoints(o)
	if err != nil {
		return err
	}

	c, err := dbscan.New(params)
	if err != nil {
		return err
	}
	res, err := c.Run(points)
	if err != nil {
		return err
	}
	rep, err := c.Report()
	if err != nil {
		return err
	}

	if o.jsonOut {
		err = report.WriteJSON(stdout, rep)
	} else {
		err = report.WriteText(stdout, rep)
	}
	if err != nil {
		return err
	}
	if o.partition {
		if err := report.WritePartition(stdout, res.Partition); err != nil {
			return err
		}
	}

	if o.predict != "" {
		if err := predictAll(c, o.predict, stdout); err != nil {
			return err
		}
	}

	title := fmt.Sprintf("DBSCAN %s", params)
	if o.htmlPath != "" {
		if err := writeHTML(o.htmlPath, res, title); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", o.htmlPath)
	}
	if o.plotPath != "" {
		if err := report.SaveScatterPlot(res, title, o.plotPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", o.plotPath)
	}

	if port := cfg.GetSerialPort(); port != "" {
		return sendSerial(c, rep, port, serialmux.PortOptions{BaudRate: cfg.GetSerialBaudRate()}, o.serve)
	}
	if o.serve {
		return errors.New("-serve requires a serial port")
	}
	return nil
}

// loadPoints reads -csv, or -dataset from -db.
func loadPoints(o *options) ([][]float64, error) {
	switch {
	case o.csvPath != "" && o.dbPath != "":
		return nil, errors.New("use either -csv or -db, not both")
	case o.csvPath != "":
		return dataset.LoadCSV(o.csvPath)
	case o.dbPath != "":
		if o.name == "" {
			return nil, errors.New("-db requires -dataset")
		}
		store, err := dataset.OpenStore(o.dbPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(o.name)
	default:
		return nil, errors.New("no input: pass -csv or -db with -dataset")
	}
}

func manageStore(o *options, stdout io.Writer) error {
	if o.dbPath == "" {
		return errors.New("-import, -list, -delete and -export require -db")
	}
	store, err := dataset.OpenStore(o.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if o.importOnly {
		if o.csvPath == "" || o.name == "" {
			return errors.New("-import requires -csv and -dataset")
		}
		points, err := dataset.LoadCSV(o.csvPath)
		if err != nil {
			return err
		}
		info, err := store.Save(o.name, points)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported %d points (%d dimensions) as %q [%s]\n",
			info.PointCount, info.Dimensions, info.Name, info.DatasetID)
	}

	if o.exportPath != "" {
		if o.name == "" {
			return errors.New("-export requires -dataset")
		}
		points, err := store.Load(o.name)
		if err != nil {
			return err
		}
		if err := exportCSV(o.exportPath, points, stdout); err != nil {
			return err
		}
	}

	if o.delete {
		if o.name == "" {
			return errors.New("-delete requires -dataset")
		}
		if err := store.Delete(o.name); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted %q\n", o.name)
	}

	if o.list {
		infos, err := store.List()
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintf(stdout, "%s\t%d points\t%d dimensions\t%s\n",
				info.Name, info.PointCount, info.Dimensions, info.DatasetID)
		}
	}
	return nil
}

// exportCSV writes points to path, or to stdout when path is "-".
func exportCSV(path string, points [][]float64, stdout io.Writer) error {
	if path == "-" {
		return dataset.WriteCSV(stdout, points)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(f, points); err != nil {
		f.Close()
		return err
	}
	monitoring.Logf("exported %d points to %s", len(points), path)
	return f.Close()
}

// predictAll classifies each ';'-separated vector.
func predictAll(c *dbscan.Clusterer, vectors string, stdout io.Writer) error {
	for _, s := range strings.Split(vectors, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := dataset.ParseVectorString(s)
		if err != nil {
			return fmt.Errorf("predict %q: %w", s, err)
		}
		id, err := c.Predict(v)
		if err != nil {
			return fmt.Errorf("predict %q: %w", s, err)
		}
		if id == dbscan.Unclassified {
			fmt.Fprintf(stdout, "Predict %s : unclassified\n", s)
			continue
		}
		fmt.Fprintf(stdout, "Predict %s : cluster %d\n", s, id)
	}
	return nil
}

func writeHTML(path string, res *dbscan.Result, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteScatterHTML(f, res, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sendSerial(c *dbscan.Clusterer, rep *dbscan.QualityReport, path string, opts serialmux.PortOptions, serve bool) error {
	con, err := openConsole(path, opts)
	if err != nil {
		return err
	}
	defer con.Close()

	if err := con.WriteReport(rep); err != nil {
		return fmt.Errorf("write report to %s: %w", path, err)
	}
	monitoring.Logf("sent report to %s", path)
	if !serve {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	monitoring.Logf("serving commands on %s", path)
	if err := con.Serve(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
