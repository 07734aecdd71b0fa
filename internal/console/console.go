package console

import (
	"bufio"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/game/table"
	"github.com/rollforgrue/grue/internal/scripting"
)

// Console is the interactive prompt for one table session. It reads command
// lines from in and writes one response per command to out.
type Console struct {
	table  *table.Table
	macros *scripting.Manager // nil disables the macro commands
	reg    *Registry
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
	done   atomic.Bool
}

// New creates a Console over the given table. When macros is non-nil its
// grue callbacks are wired to the table, so loaded macros act on the same
// party, lighting, and generator the commands do.
//
// Precondition: tbl, in, out, and logger must be non-nil.
func New(tbl *table.Table, macros *scripting.Manager, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if tbl == nil || in == nil || out == nil || logger == nil {
		panic("console: New requires a table, reader, writer, and logger")
	}
	if macros != nil {
		WireMacros(macros, tbl)
	}
	return &Console{
		table:  tbl,
		macros: macros,
		reg:    DefaultRegistry(),
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Run reads command lines until quit, EOF, or Stop, dispatching each through
// the registry. Unknown commands print a hint rather than aborting.
//
// Postcondition: Returns nil on quit or EOF; a non-nil error only when the
// reader itself fails.
func (c *Console) Run() error {
	fmt.Fprintf(c.out, "grue table %s\nType help to list commands.\n", c.table.ID())

	scanner := bufio.NewScanner(c.in)
	for !c.done.Load() {
		fmt.Fprint(c.out, "grue> ")
		if !scanner.Scan() {
			break
		}
		in := ParseLine(scanner.Text())
		if in.Command == "" {
			continue
		}
		cmd, ok := c.reg.Resolve(in.Command)
		if !ok {
			fmt.Fprintf(c.out, "unknown command %q; try help\n", in.Command)
			continue
		}
		c.logger.Debug("command dispatched", zap.String("command", cmd.Name))
		fmt.Fprintln(c.out, cmd.Run(c, in))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("console: reading input: %w", err)
	}
	return nil
}

// Stop makes Run return before reading the next line. Safe to call from
// another goroutine; a Run blocked on input returns once that read ends.
func (c *Console) Stop() {
	c.done.Store(true)
}
