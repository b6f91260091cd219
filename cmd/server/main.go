// server: evaluates the colour network's first layer over encrypted features
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/split"
	"github.com/TheEpicBlock/mid-journey/utils"
)

var (
	listen     = flag.String("listen", "127.0.0.1:7390", "TCP address to listen on")
	configFile = flag.String("config", "", "Model config JSON file")
	paramsFile = flag.String("params", "", "Model parameters JSON file")
	demoInput  = flag.Int("demo-input", 16, "Input length of the demo model")
	demoLayers = flag.String("demo-layers", "32 3", "Layer sizes of the demo model")
	seed       = flag.Uint64("seed", 1, "Seed for the demo model")
	verbose    = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	m, err := loadModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log("Model ready: %d features, first layer %d neurons", m.FeatureCount(), m.Config.Layers[0])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	log("Listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log("Accept error: %v", err)
			continue
		}
		go handle(ctx, conn, m)
	}

	log("Server done")
}

// handle serves one client. Every connection gets its own evaluator.
func handle(ctx context.Context, conn net.Conn, m *model.Model) {
	defer conn.Close()
	peer := conn.RemoteAddr()
	log("Client %s connected", peer)

	proto := split.NewProtocol(conn, conn)
	server, err := split.Accept(proto, m.Layers[0], m.FeatureCount())
	if err != nil {
		log("Client %s: %v", peer, err)
		return
	}

	if err := split.Serve(ctx, server, proto); err != nil && !errors.Is(err, context.Canceled) {
		log("Client %s: %v", peer, err)
		return
	}
	log("Client %s done", peer)
}

func loadModel() (*model.Model, error) {
	layers, err := utils.ParseLayers(*demoLayers)
	if err != nil {
		return nil, err
	}
	opts := &utils.Options{
		ConfigPath:  *configFile,
		ParamsPath:  *paramsFile,
		InputLength: *demoInput,
		Layers:      layers,
		Seed:        *seed,
	}
	if err := utils.ValidateOptions(opts); err != nil {
		return nil, err
	}
	if opts.Demo() {
		log("No model files. Using a random demo model (seed %d)", opts.Seed)
		return model.Random(model.Config{InputLength: opts.InputLength, Layers: opts.Layers}, opts.Seed)
	}
	return model.LoadFiles(opts.ConfigPath, opts.ParamsPath)
}

func log(format string, args ...interface{}) {
	if *verbose {
		fmt.Fprintf(os.Stderr, "[SERVER] "+format+"\n", args...)
	}
}
