// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/term"

	"github.com/ezrec/avrsim/emulator"
	"github.com/ezrec/avrsim/image"
)

const (
	COLUMN_WIDTH    = 10 // Width of one register cell in the state table.
	DEFAULT_COLUMNS = 8  // Register columns when stdout is not a terminal.
)

// columns returns how many register cells fit on the terminal.
func columns() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < COLUMN_WIDTH {
		return DEFAULT_COLUMNS
	}

	return width / COLUMN_WIDTH
}

// save writes the program image, as Intel HEX for .hex and .ihex files,
// otherwise as raw binary.
func save(path string, words []uint16) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, ouf.Close())
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex":
		err = image.EncodeHex(ouf, words)
	default:
		err = image.EncodeBinary(ouf, words)
	}

	return
}

func main() {
	var compile string
	var input string
	var output string
	var limit int
	var skip bool
	var verbose bool
	var dump bool

	flag.StringVar(&compile, "c", "", ".S file to assemble")
	flag.StringVar(&input, "i", "", ".hex or .bin program image to load")
	flag.StringVar(&output, "o", "", "Save program image to .hex or .bin file")
	flag.IntVar(&limit, "n", 1_000_000, "Maximum ticks to run, 0 for no limit")
	flag.BoolVar(&skip, "s", false, "Save program image only, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "d", false, "Dump the final machine state")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if (len(compile) == 0) == (len(input) == 0) {
		log.Fatalf("%v: exactly one of -c or -i is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load an existing image.
	if len(input) != 0 {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()

		words, err := image.Decode(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		emu.Image(words)
	}

	if len(output) != 0 {
		err := save(output, emu.Program.Binary())
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if skip {
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	err = emu.Run(limit)

	if dump {
		spew.Fdump(os.Stdout, emu.Snapshot())
	} else {
		fmt.Print(emu.Snapshot().Format(columns()))
	}

	if err != nil {
		log.Printf("%v", err)
		for _, lineno := range emu.Backtrace() {
			log.Printf("  called from line %d", lineno)
		}
		os.Exit(1)
	}
}
