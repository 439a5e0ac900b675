// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mwillick/lc3vm/internal/machine"
)

const usage = "lc3 [image-file1] ...\n"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.Parse()
}

func run() int {
	args := flag.Args()

	if len(args) < 1 {
		fmt.Print(usage)
		return 2
	}

	var mc machine.Machine
	var devices machine.DeviceHandler
	devices.Keyboard = bufio.NewReader(os.Stdin)
	devices.Display = bufio.NewWriter(os.Stdout)
	devices.KeyReady = keyReady
	mc.Devices = &devices
	mc.Reset()

	for _, path := range args {
		if err := loadImage(&mc, path); err != nil {
			fmt.Printf("failed to load image: %s\n", path)
			return 1
		}
	}

	guard := enterRawTerm()
	defer guard.Restore()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		<-sigc
		guard.Restore()
		fmt.Println()
		os.Exit(-2)
	}()

	if err := mc.Run(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func loadImage(mc *machine.Machine, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return mc.LoadImage(file)
}

func main() {
	os.Exit(run())
}
