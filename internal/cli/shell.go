package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/store"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// runShell attaches the store and runs the command interpreter until quit or
// end of input. Storage failures end the shell with exitSysError.
func runShell(cmd *cobra.Command, flags *rootFlags) (err error) {
	s, err := resolveSettings(flags)
	if err != nil {
		return userError(err)
	}

	logger := newLogger(cmd.ErrOrStderr(), s.logLevel)
	registry := types.DefaultRegistry()

	st := store.New(registry, logger)
	if err := st.Attach(s.store); err != nil {
		return sysError(err)
	}
	defer func() {
		if derr := st.Detach(); derr != nil && err == nil {
			err = sysError(derr)
		}
	}()

	in := cmd.InOrStdin()
	tty := isTerminal(in)
	c := console.New(console.Options{
		In:         in,
		Out:        cmd.OutOrStdout(),
		Registry:   registry,
		Store:      st,
		Logger:     logger,
		ShowPrompt: showPrompt(s.prompt, tty),
		Terminal:   tty,
	})
	if err := c.Run(); err != nil {
		logger.Error("shell stopped", "error", err)
		return sysError(err)
	}
	return nil
}

// showPrompt reports whether the shell prints a prompt before each read.
// Piped input is prompted too unless the mode is auto or never.
func showPrompt(mode string, tty bool) bool {
	switch mode {
	case promptAlways:
		return true
	case promptAuto:
		return tty
	default:
		return false
	}
}

// isTerminal reports whether in is a terminal.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
