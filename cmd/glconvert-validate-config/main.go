package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/rawfile"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <config file>", os.Args[0])
	}
	cfg, err := config.Parse(os.Args[1])
	if err != nil {
		fmt.Printf("Config invalid: %s\n", err)
		os.Exit(1)
	}

	fmt.Print("Config valid!\n\n")

	fmt.Print(cfg)

	// list what the directory inputs would pick up right now
	for _, name := range cfg.InputNames() {
		dir, ok := cfg.Inputs[name].Cfg.(*config.DirInputCfg)
		if !ok {
			continue
		}
		files, err := rawfile.Discover(dir.Path.String())
		if err != nil {
			fmt.Printf("\nInput %s: %s\n", name, err)
			continue
		}
		fmt.Printf("\nInput %s has %d frame files\n", name, len(files))
		for _, f := range files {
			fmt.Printf("  %s (%s)\n", f.Name(), f.FrameCfg)
		}
	}
}
