package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/services"
)

// App is the interactive diary client.
type App struct {
	svc    services.DiaryService
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// interactive controls whether the REPL prompt is printed.
	interactive bool
}

// NewApp builds an App reading commands from in and writing to out.
func NewApp(svc services.DiaryService, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}
	return &App{
		svc:         svc,
		log:         log.With("component", "cli"),
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Run starts the REPL and blocks until exit, EOF or ctx cancellation.
func (a *App) Run(ctx context.Context) {
	if a.interactive {
		a.println("My Diary. Type 'help' for commands.")
	}
	runREPL(ctx, a, a.reader, a)
}

func (a *App) prompt() {
	if a.interactive {
		fmt.Fprint(a.out, "diary> ")
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports err to the user and returns it unchanged.
func (a *App) fail(ctx context.Context, op string, err error) error {
	a.log.Debug(ctx, "command failed", "op", op, "error", err)
	a.printf("error: %s\n", userMessage(err))
	return err
}
