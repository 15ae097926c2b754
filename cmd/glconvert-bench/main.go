package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fosdem/glconvert/lib/api"
	"github.com/fosdem/glconvert/lib/bench"
	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/glcontext"
	logging "github.com/fosdem/glconvert/lib/log"
	"github.com/fosdem/glconvert/lib/stats"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

// @title			glconvert
// @version		1.0
// @description	Statistics and previews for the YUY2 to NV12 GPU converter
// @BasePath		/
func main() {
	watchPtr := flag.Bool("watch", false, "Keep converting files that appear in inputs with inotify enabled")
	jsonPtr := flag.String("json", "", "Write the results as JSON to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <config file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Parse(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := stats.New()
	theApi := api.ServeInBackground(cfg.Api, st)

	provider := glcontext.NewGLFWProvider()
	provider.Debug = cfg.Debug
	b, err := bench.New(cfg, provider, st)
	if err != nil {
		log.Fatalf("could not set up benchmark: %s", err)
	}
	defer b.Close()

	if theApi != nil {
		b.AddEventListener(bench.EventConverted, func(_ *bench.Bench, data interface{}) {
			ev := data.(bench.EventDataConverted)
			theApi.SetFrames(ev.Input, ev.Output)
		})
		go func() {
			for ctx.Err() == nil {
				if theApi.ShutdownRequested.Load() {
					stop()
					return
				}
				time.Sleep(100 * time.Millisecond)
			}
		}()
	}

	results, err := b.Run(ctx)
	printResults(results)
	if err != nil && ctx.Err() == nil {
		b.Close()
		log.Fatalf("benchmark failed: %s", err)
	}

	if *jsonPtr != "" {
		if err := writeJSON(*jsonPtr, results); err != nil {
			log.Printf("could not write results: %s", err)
		}
	}

	if *watchPtr && ctx.Err() == nil {
		if err := b.Watch(ctx); err != nil {
			b.Close()
			log.Fatalf("could not watch inputs: %s", err)
		}
	}
}

func printResults(results []bench.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%-32s %-10s %7s %10s %10s %10s %10s %9s\n", "clip", "size", "frames", "mean ms", "median ms", "min ms", "max ms", "fps")
	for _, r := range results {
		verified := ""
		if r.Verified {
			verified = " ok"
		}
		fmt.Printf("%-32s %-10s %7d %10.3f %10.3f %10.3f %10.3f %9.1f%s\n",
			r.Clip, r.Resolution, r.Frames*r.Iterations,
			r.FrameTime.Mean, r.FrameTime.Median, r.FrameTime.Min, r.FrameTime.Max,
			r.FrameTime.FPS(), verified)
	}
}

func writeJSON(path string, results []bench.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
