// Package console implements the hbnb command interpreter: a line-oriented
// read-eval loop that dispatches each input line to one of a fixed set of
// command handlers operating on the object store.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// handler runs one command with its argument string. It returns stop=true to
// end the loop. A non-nil error is fatal and also ends the loop.
type handler func(c *Console, arg string) (stop bool, err error)

// command is one entry of the dispatch table.
type command struct {
	name string
	help string
	run  handler
}

// Options configures a Console.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Registry *types.Registry
	Store    types.Store
	Logger   *slog.Logger

	// ShowPrompt prints Prompt before each read.
	ShowPrompt bool

	// Terminal prints a newline at end of input so the caller's shell
	// resumes on a fresh line.
	Terminal bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Console reads commands from In and writes results and diagnostics to Out.
type Console struct {
	in         *bufio.Reader
	out        io.Writer
	registry   *types.Registry
	store      types.Store
	logger     *slog.Logger
	showPrompt bool
	terminal   bool
	now        func() time.Time
	commands   map[string]command
}

// New returns a Console ready to Run.
func New(opts Options) *Console {
	c := &Console{
		in:         bufio.NewReader(opts.In),
		out:        opts.Out,
		registry:   opts.Registry,
		store:      opts.Store,
		logger:     opts.Logger,
		showPrompt: opts.ShowPrompt,
		terminal:   opts.Terminal,
		now:        opts.Now,
	}
	if c.registry == nil {
		c.registry = types.DefaultRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.commands = make(map[string]command)
	for _, cmd := range commandTable() {
		c.commands[cmd.name] = cmd
	}
	return c
}

// Run executes lines until quit, EOF or end of input. It returns nil on
// normal termination and the storage error that stopped the loop otherwise.
func (c *Console) Run() error {
	for {
		if c.showPrompt {
			fmt.Fprint(c.out, Prompt)
		}

		line, readErr := c.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("reading input: %w", readErr)
		}

		if errors.Is(readErr, io.EOF) && line == "" {
			line = "EOF"
			if c.terminal {
				fmt.Fprintln(c.out)
			}
		}

		stop, err := c.Execute(line)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
	}
}

// Execute interprets a single line. The command word ends at the first
// whitespace; the rest of the line, trimmed, is the argument string.
func (c *Console) Execute(line string) (stop bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if strings.HasPrefix(line, "?") {
		line = "help " + line[1:]
	}

	name, arg := splitCommand(line)
	cmd, ok := c.commands[name]
	if !ok {
		c.println("*** Unknown syntax: " + line)
		return false, nil
	}

	c.logger.Debug("dispatch", "command", name, "arg", arg)
	return cmd.run(c, arg)
}

func splitCommand(line string) (name, arg string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
