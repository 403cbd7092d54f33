// Package clicmd implements dualc's single command: parse, a semantic
// check, then SIL and/or JBC generation of one source file, printed to
// stdout in the block layout spec.md §6 defines.
package clicmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/duals-lang/dualc/internal/driver"
	"github.com/duals-lang/dualc/lang/ast"
)

const binName = "dualc"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler for the Duals programming language: parses <path>, runs its
semantic check, then emits SIL and JBC assembly listings to stdout.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --msil-only               Emit only SIL, suppress the AST dump
                                 and JBC.
       --jbc-only                Emit only JBC, suppress the AST dump
                                 and SIL.

Exit codes: 0 success, 1 parse error, 2 semantic error, 3 SIL generation
error, 4 JBC generation error.
`, binName)
)

// Cmd is dualc's mainer.Cmd: flags are bound via struct tags and populated
// by mainer.Parser before Main runs.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	MSILOnly bool `flag:"msil-only"`
	JBCOnly  bool `flag:"jbc-only"`

	args []string
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no source file specified")
	}
	if len(c.args) > 1 {
		return errors.New("only one source file may be specified")
	}
	if c.MSILOnly && c.JBCOnly {
		return errors.New("--msil-only and --jbc-only are mutually exclusive")
	}
	return nil
}

// exit codes, per spec.md §6.
const (
	exitParseError mainer.ExitCode = 1
	exitCheckError mainer.ExitCode = 2
	exitSILError   mainer.ExitCode = 3
	exitJBCError   mainer.ExitCode = 4
)

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	return c.compile(ctx, stdio, c.args[0])
}

func (c *Cmd) compile(ctx context.Context, stdio mainer.Stdio, filename string) mainer.ExitCode {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return exitParseError
	}

	opts := driver.Options{MSILOnly: c.MSILOnly, JBCOnly: c.JBCOnly}
	res, err := driver.Compile(ctx, filename, src, opts)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		var derr *driver.Error
		if errors.As(err, &derr) {
			switch derr.Stage {
			case driver.StageParse:
				return exitParseError
			case driver.StageCheck:
				return exitCheckError
			case driver.StageSIL:
				return exitSILError
			case driver.StageJBC:
				return exitJBCError
			}
		}
		return exitCheckError
	}

	c.printResult(stdio, res)
	return mainer.Success
}

func (c *Cmd) printResult(stdio mainer.Stdio, res *driver.Result) {
	opts := driver.Options{MSILOnly: c.MSILOnly, JBCOnly: c.JBCOnly}

	if opts.DumpsAST() {
		fmt.Fprintln(stdio.Stdout, "ast:")
		printer := ast.Printer{Output: stdio.Stdout}
		printer.Print(res.Program)
		fmt.Fprintln(stdio.Stdout)

		fmt.Fprintln(stdio.Stdout, "semantic-check:")
		printer.Print(res.Program)
		fmt.Fprintln(stdio.Stdout)
	}

	if !c.JBCOnly {
		if opts.DumpsAST() {
			fmt.Fprintln(stdio.Stdout, "msil:")
		}
		fmt.Fprintln(stdio.Stdout, res.SIL)
	}

	if !c.MSILOnly {
		if opts.DumpsAST() {
			fmt.Fprintln(stdio.Stdout, "jbc:")
		}
		fmt.Fprintln(stdio.Stdout, res.JBC)
	}
}
