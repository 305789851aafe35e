// Command rvmasm assembles a source file into a program image on disk.
// Grounded on the teacher's cmd/asm68/main.go entry-point shape, with
// argument handling replaced by urfave/cli per DESIGN.md (the teacher's
// own declared CLI dependency, github.com/grimdork/climate, is never
// imported anywhere in its source, so there is no usage pattern in the
// corpus to ground a wiring attempt on; chriskillpack-bbcdisasm's
// cmd/bbc-disasm/main.go is the pack's only example of an actually used
// CLI framework dependency).
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/halvarsson/rvm/assembler"
)

func main() {
	app := cli.NewApp()
	app.Name = "rvmasm"
	app.Usage = "assemble a source file into a program image"
	app.ArgsUsage = "<source.asm> <output.bin>"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("rvmasm failed")
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("usage: rvmasm <source.asm> <output.bin>", 1)
	}
	sourcePath, outPath := c.Args().Get(0), c.Args().Get(1)

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	img, err := assembler.New().Assemble(string(source))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if err := os.WriteFile(outPath, img.Bytes(), 0o644); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	logrus.WithFields(logrus.Fields{
		"source": sourcePath,
		"output": outPath,
		"bytes":  len(img.Bytes()),
	}).Info("assembled")
	return nil
}
