// colorize: predict a colour for every input string
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/pipeline"
	"github.com/TheEpicBlock/mid-journey/split"
	"github.com/TheEpicBlock/mid-journey/utils"
)

var (
	configFile  = flag.String("config", "", "Model config JSON file")
	paramsFile  = flag.String("params", "", "Model parameters JSON file")
	text        = flag.String("text", "", "Text to colour (default: one string per stdin line)")
	datasetFile = flag.String("dataset", "", "Score the model against a name -> hex JSON file")
	private     = flag.Bool("private", false, "Evaluate the first layer over encrypted features")
	logN        = flag.Int("logN", split.DefaultLogN, "Ring dimension log2 for -private")
	demoInput   = flag.Int("demo-input", 16, "Input length of the demo model")
	demoLayers  = flag.String("demo-layers", "32 3", "Layer sizes of the demo model")
	seed        = flag.Uint64("seed", 1, "Seed for the demo model")
	saveConfig  = flag.String("save-config", "", "Write the model config to this file")
	saveParams  = flag.String("save-params", "", "Write the model parameters to this file")
	verbose     = flag.Bool("verbose", false, "Verbose output")
)

func logf(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[COLORIZE] "+format+"\n", args...)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	layers, err := utils.ParseLayers(*demoLayers)
	if err != nil {
		fatalf("parsing -demo-layers: %v", err)
	}
	opts := &utils.Options{
		ConfigPath:  *configFile,
		ParamsPath:  *paramsFile,
		InputLength: *demoInput,
		Layers:      layers,
		Seed:        *seed,
		DatasetPath: *datasetFile,
		Private:     *private,
		LogN:        *logN,
	}
	if err := utils.ValidateOptions(opts); err != nil {
		fatalf("%v", err)
	}

	stats := &utils.TimingStats{}
	start := time.Now()
	m, err := loadModel(opts)
	if err != nil {
		fatalf("%v", err)
	}
	utils.Track(&stats.LoadTime, start)
	logf("Model: input length %d, layers %v (%d features)", m.Config.InputLength, m.Config.Layers, m.FeatureCount())

	if *saveConfig != "" || *saveParams != "" {
		if *saveConfig == "" || *saveParams == "" {
			fatalf("-save-config and -save-params must be given together")
		}
		if err := utils.SaveModel(*saveConfig, *saveParams, m); err != nil {
			fatalf("%v", err)
		}
		logf("Saved model to %s and %s", *saveConfig, *saveParams)
	}

	pred := pipeline.New(m)

	if *datasetFile != "" {
		if err := scoreDataset(pred, *datasetFile); err != nil {
			fatalf("%v", err)
		}
		return
	}

	predict := func(s string) (pipeline.Result, error) {
		res, t := pred.PredictTimed(s)
		stats.AddPrediction(t)
		return res, nil
	}

	if opts.Private {
		ctx := context.Background()
		start := time.Now()
		session, err := split.NewSession(ctx, m, opts.LogN)
		if err != nil {
			fatalf("starting private session: %v", err)
		}
		defer session.Close()
		utils.Track(&stats.PrivateTime, start)
		logf("Private session ready (logN=%d) in %v", opts.LogN, time.Since(start))

		predict = func(s string) (pipeline.Result, error) {
			defer utils.Track(&stats.PrivateTime, time.Now())
			return session.Predict(ctx, s)
		}
	}

	n, err := run(predict, os.Stdout)
	if err != nil {
		fatalf("%v", err)
	}
	utils.PrintTimingStats(stats, n)
}

func loadModel(opts *utils.Options) (*model.Model, error) {
	if opts.Demo() {
		logf("No model files. Using a random demo model (seed %d)", opts.Seed)
		return model.Random(model.Config{InputLength: opts.InputLength, Layers: opts.Layers}, opts.Seed)
	}
	return model.LoadFiles(opts.ConfigPath, opts.ParamsPath)
}

// run colours -text, or every line of stdin, and returns how many strings it handled.
func run(predict func(string) (pipeline.Result, error), w io.Writer) (int, error) {
	if *text != "" {
		return 1, printResult(w, predict, *text)
	}

	n := 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if err := printResult(w, predict, line); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}

func printResult(w io.Writer, predict func(string) (pipeline.Result, error), s string) error {
	res, err := predict(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, err)
	}
	_, err = fmt.Fprintln(w, formatResult(res))
	return err
}

func formatResult(res pipeline.Result) string {
	return fmt.Sprintf("%s\t%s\t%.4f %.4f %.4f", res.Text, res.RGB.Hex(), res.Scaled.L, res.Scaled.A, res.Scaled.B)
}

func scoreDataset(pred *pipeline.Predictor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := pipeline.LoadDataset(f)
	if err != nil {
		return err
	}
	report, err := pred.Score(ds)
	if err != nil {
		return err
	}

	for _, e := range report.Entries {
		fmt.Printf("%s\t%s\t%s\t%.6f\n", e.Name, e.Expected.Hex(), e.Predicted.Hex(), e.Cost)
	}
	fmt.Printf("\nEntries: %d (truncated %d)\n", len(report.Entries), report.Truncated)
	fmt.Printf("Mean cost: %.6f\n", report.MeanCost)
	fmt.Printf("Worst: %q expected %s got %s (cost %.6f)\n",
		report.Worst.Name, report.Worst.Expected.Hex(), report.Worst.Predicted.Hex(), report.Worst.Cost)
	return nil
}
