package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/causelist"
	"github.com/fwojciec/causelist/fs"
)

// Run executes the summarize command.
func (c *SummarizeCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.JSON)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return causelist.Errorf(causelist.EINVALID, "cannot read %s: %v", c.JSON, err)
	}
	defer f.Close()

	report, err := fs.ReadReport(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", causelist.ErrorMessage(err))
		return err
	}

	if err := writeFile(c.Out, func(out *os.File) error { return fs.WriteSummary(out, report.Summary(), true) }); err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to write %s: %v\n", c.Out, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote summary CSV: %s\n", c.Out)
	return nil
}
