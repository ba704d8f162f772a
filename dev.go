package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/okv/c8/vip"
)

// devMode builds and runs srcFile, rebuilding and resetting the machine
// each time the file changes. With debug set it also runs the tview
// debugger in the terminal.
func devMode(gui, debug bool, srcFile string) error {
	srcFile = filepath.Clean(srcFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(srcFile)); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp("", "c8-dev-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	romFile := filepath.Join(tmp, filepath.Base(srcFile)+".ch8")

	var (
		dbg      *debugView
		state    vip.StateFunc
		buildOut io.Writer = os.Stderr
	)
	if debug {
		dbg = newDebugView()
		state = dbg.StateFunc
		buildOut = dbg.log
		log.SetPrefix("")
		log.SetOutput(dbg.log)
	}
	runner := vip.NewRunner(true, state)
	if dbg != nil {
		dbg.r = runner
		go func() {
			if err := dbg.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("c8: ")
			runner.Debug("exit", 0)
		}()
	}

	romCh := make(chan []byte)
	go func() {
		started := false
		run := time.After(1 * time.Millisecond)
		for {
			select {
			case <-run:
				log.Printf("dev: build %s", filepath.Base(srcFile))
				rom, err := devBuild(buildOut, srcFile, romFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if dbg != nil {
					syms, err := parseSymbols(romFile + ".sym")
					if err != nil {
						log.Printf("dev: reading symbols: %v", err)
						break
					}
					dbg.setSymbols(syms)
				}
				if !started {
					log.Printf("dev: start")
					romCh <- rom
					started = true
				} else {
					log.Printf("dev: reset")
					runner.Swap(rom)
				}
			case ev := <-watcher.Event:
				if ev.Name == srcFile && !ev.IsAttrib() {
					run = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()

	if !gui {
		return runner.Run(<-romCh)
	}
	var (
		exit    = make(chan bool)
		execErr = make(chan error, 1)
	)
	go func() {
		execErr <- runner.Run(<-romCh)
		close(exit)
	}()
	if err := newGUI(runner).Run(exit); err != nil {
		log.Fatalf("gui: %v", err)
	}
	select {
	case <-exit:
	default:
		runner.Debug("exit", 0)
	}
	return <-execErr
}

// devBuild assembles srcFile into romFile with octo and returns the
// ROM image. A srcFile that is already a ROM is read as-is.
func devBuild(out io.Writer, srcFile, romFile string) ([]byte, error) {
	if filepath.Ext(srcFile) != ".8o" {
		return os.ReadFile(srcFile)
	}
	cmd := exec.Command("octo", srcFile, romFile)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("octo: %v", err)
	}
	return os.ReadFile(romFile)
}
