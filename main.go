// Command c8 executes CHIP-8 ROMs on a COSMAC VIP style machine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/okv/c8/vip"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "disable GUI features")
		devFlag   = flag.Bool("dev", false, "enable developer mode (live re-build and run an Octo program)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] <program.ch8 | program.8o>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-cli] <-dev | -debug> <program.8o>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	if *devFlag || *debugFlag {
		if err := devMode(!*cliFlag, *debugFlag, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), !*cliFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(romFile string, guiEnabled bool) error {
	rom, err := loadROM(romFile)
	if err != nil {
		return err
	}

	r := vip.NewRunner(false, nil)
	if !guiEnabled {
		return r.Run(rom)
	}

	var (
		exit    = make(chan bool)
		execErr = make(chan error, 1)
	)
	go func() {
		execErr <- r.Run(rom)
		close(exit)
	}()
	if err := newGUI(r).Run(exit); err != nil {
		log.Fatalf("gui: %v", err)
	}
	select {
	case <-exit:
	default:
		// The window was closed while the program was still running.
		r.Debug("exit", 0)
	}
	return <-execErr
}

// loadROM reads a ROM image, assembling srcFile first when it is an
// Octo source.
func loadROM(romFile string) ([]byte, error) {
	if filepath.Ext(romFile) != ".8o" {
		return os.ReadFile(romFile)
	}
	tmp, err := os.MkdirTemp("", "c8-build-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)
	return devBuild(os.Stderr, romFile, filepath.Join(tmp, filepath.Base(romFile)+".ch8"))
}
