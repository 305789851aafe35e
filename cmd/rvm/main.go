// Command rvm runs a program image, or enters the REPL when given no
// file (spec.md §6). Grounded on the teacher's cmd/run68/main.go
// entry-point shape.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/halvarsson/rvm/assembler"
	"github.com/halvarsson/rvm/repl"
	"github.com/halvarsson/rvm/vm"
)

func main() {
	app := cli.NewApp()
	app.Name = "rvm"
	app.Usage = "run a program image, or enter the REPL if none is given"
	app.ArgsUsage = "[file]"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "cycles", Usage: "stop after N instructions even if the program hasn't halted (0 = unbounded)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("rvm failed")
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return repl.NewStdio().Run()
	}

	path := c.Args().Get(0)
	contents, err := os.ReadFile(path)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	m := vm.New()
	if strings.EqualFold(filepath.Ext(path), ".asm") {
		img, err := assembler.New().Assemble(string(contents))
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		m.Load(img)
	} else {
		m.LoadRaw(contents)
	}

	if err := m.RunFor(c.Int("cycles")); err != nil {
		if err == vm.ErrHeaderIncorrect {
			logrus.Error("header incorrect")
		}
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
