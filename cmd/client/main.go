// client: colours text through a remote server without revealing the text
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/pipeline"
	"github.com/TheEpicBlock/mid-journey/split"
	"github.com/TheEpicBlock/mid-journey/utils"
)

var (
	addr       = flag.String("addr", "127.0.0.1:7390", "Server address")
	configFile = flag.String("config", "", "Model config JSON file")
	paramsFile = flag.String("params", "", "Model parameters JSON file")
	text       = flag.String("text", "", "Text to colour (default: one string per stdin line)")
	logN       = flag.Int("logN", split.DefaultLogN, "Ring dimension log2")
	demoInput  = flag.Int("demo-input", 16, "Input length of the demo model")
	demoLayers = flag.String("demo-layers", "32 3", "Layer sizes of the demo model")
	seed       = flag.Uint64("seed", 1, "Seed for the demo model")
	timeout    = flag.Duration("timeout", 10*time.Second, "Dial timeout")
	verbose    = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	layers, err := utils.ParseLayers(*demoLayers)
	if err != nil {
		return err
	}
	opts := &utils.Options{
		ConfigPath:  *configFile,
		ParamsPath:  *paramsFile,
		InputLength: *demoInput,
		Layers:      layers,
		Seed:        *seed,
		Private:     true,
		LogN:        *logN,
	}
	if err := utils.ValidateOptions(opts); err != nil {
		return err
	}

	stats := &utils.TimingStats{}
	start := time.Now()
	var m *model.Model
	if opts.Demo() {
		log("No model files. Using a random demo model (seed %d)", opts.Seed)
		m, err = model.Random(model.Config{InputLength: opts.InputLength, Layers: opts.Layers}, opts.Seed)
	} else {
		m, err = model.LoadFiles(opts.ConfigPath, opts.ParamsPath)
	}
	if err != nil {
		return err
	}
	utils.Track(&stats.LoadTime, start)

	params, err := split.Params(opts.LogN)
	if err != nil {
		return err
	}
	start = time.Now()
	client, err := split.NewClient(params, m.FeatureCount())
	if err != nil {
		return err
	}
	log("Keys generated (logN=%d) in %v", opts.LogN, time.Since(start))

	conn, err := net.DialTimeout("tcp", *addr, *timeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	proto := split.NewProtocol(conn, conn)
	if err := client.Handshake(proto); err != nil {
		return err
	}
	utils.Track(&stats.PrivateTime, start)
	log("Connected to %s", *addr)

	ctx := context.Background()
	pred := pipeline.New(m)
	id := 0
	colour := func(s string) error {
		defer utils.Track(&stats.PrivateTime, time.Now())
		id++
		res, err := split.Predict(ctx, client, proto, pred, id, s)
		if err != nil {
			return fmt.Errorf("%q: %w", s, err)
		}
		fmt.Printf("%s\t%s\t%.4f %.4f %.4f\n", res.Text, res.RGB.Hex(), res.Scaled.L, res.Scaled.A, res.Scaled.B)
		return nil
	}

	if *text != "" {
		if err := colour(*text); err != nil {
			return err
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := colour(strings.TrimRight(scanner.Text(), "\r")); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	if err := proto.SendDone(); err != nil {
		return err
	}
	utils.PrintTimingStats(stats, id)
	return nil
}

func log(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[CLIENT] "+format+"\n", args...)
	}
}
