package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/converter"
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/glcontext"
	logging "github.com/fosdem/glconvert/lib/log"
	"github.com/fosdem/glconvert/lib/rawfile"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	widthPtr := flag.Int("width", 0, "Frame width, taken from the file name when 0")
	heightPtr := flag.Int("height", 0, "Frame height, taken from the file name when 0")
	outDirPtr := flag.String("out", "", "Directory for the .nv12 files, next to the input when empty")
	tilePtr := flag.Int("tile", config.DefaultTileSize, "Work group tile size")
	glslPtr := flag.String("glsl", config.DefaultGLSLVersion, "GLSL version line for the generated shaders")
	timeoutPtr := flag.Duration("timeout", 0, "Give up waiting for the GPU after this long, 0 waits forever")
	debugPtr := flag.Bool("debug", false, "Forward GL driver debug messages to the log")
	dumpPtr := flag.String("dump-shaders", "", "Write the generated shader sources to this directory")
	verifyPtr := flag.Bool("verify", false, "Compare the GPU output with the CPU reference")
	cpuPtr := flag.Bool("cpu", false, "Convert on the CPU instead of the GPU")
	levelPtr := flag.String("log-level", "info", "Log level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <WxH file>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logging.Setup(*levelPtr); err != nil {
		log.Fatal(err)
	}
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	provider := glcontext.NewGLFWProvider()
	provider.Debug = *debugPtr
	sessions := make(map[encdec.FrameCfg]converter.Converter)
	defer func() {
		for _, s := range sessions {
			s.Close()
		}
	}()

	failed := 0
	for _, path := range flag.Args() {
		f := &rawfile.File{Path: path, FrameCfg: encdec.FrameCfg{Width: *widthPtr, Height: *heightPtr}}
		if f.Width == 0 || f.Height == 0 {
			parsed, err := rawfile.NewFile(path)
			if err != nil {
				slog.Error("Cannot tell frame size, pass -width and -height", "name", path, "err", err)
				failed++
				continue
			}
			f = parsed
		}

		s, ok := sessions[f.FrameCfg]
		if !ok {
			cfg := &converter.Config{
				FrameCfg:        f.FrameCfg,
				TileSize:        *tilePtr,
				GLSLVersion:     *glslPtr,
				DispatchTimeout: *timeoutPtr,
				Debug:           *debugPtr,
				ShaderDumpDir:   *dumpPtr,
			}
			var err error
			if *cpuPtr {
				s, err = converter.NewCPU(cfg)
			} else {
				s, err = converter.New(provider, cfg)
			}
			if err != nil {
				log.Fatalf("could not set up %s conversion: %s", f.FrameCfg, err)
			}
			sessions[f.FrameCfg] = s
		}

		if err := convertFile(s, f, *outDirPtr, *verifyPtr); err != nil {
			slog.Error("Conversion failed", "name", path, "err", err)
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("%d of %d files failed", failed, flag.NArg())
	}
}

func convertFile(s converter.Converter, f *rawfile.File, outDir string, verify bool) error {
	m, err := rawfile.Open(f.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()

	n, err := f.FrameCount(len(m.Data))
	if err != nil {
		return err
	}
	l, err := encdec.NewPlaneLayout(f.Width, f.Height)
	if err != nil {
		return err
	}

	in := l.InputByteCount()
	out := make([]byte, 0, n*l.TotalByteCount())
	start := time.Now()
	for i := range n {
		out, err = s.ConvertInto(out, m.Data[i*in:(i+1)*in])
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	took := time.Since(start)

	if verify {
		ref := make([]byte, 0, len(out))
		for i := range n {
			ref, err = encdec.ConvertYUY2ToNV12(ref, m.Data[i*in:(i+1)*in], l)
			if err != nil {
				return err
			}
		}
		if !bytes.Equal(ref, out) {
			return fmt.Errorf("output differs from the CPU reference")
		}
	}

	dst := rawfile.OutputPath(f.Path, outDir)
	if err := rawfile.WriteOutput(dst, out); err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("Converted %d %s frames in %s to %s", n, f.FrameCfg, took, dst))
	return nil
}
