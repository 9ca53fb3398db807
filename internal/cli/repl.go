package cli

import (
	"bufio"
	"context"
	"strings"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies it; tests provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Share(ctx context.Context, id string) error
	ShareID(ctx context.Context, id string) error
	Open(ctx context.Context, link string) error
}

type console interface {
	prompt()
	println(args ...any)
}

const helpText = `Available commands:
  list | l               list entries, newest first
  show <id>              show a single entry
  add                    write a new entry
  edit <id>              edit an entry
  delete <id>            delete an entry
  share <id>             print a link that embeds the entry
  shareid <id>           print a link that refers to the entry by id
  open <link|token>      display a shared entry
  exit | quit            leave the program`

// runREPL reads one command per line from reader and dispatches it to a.
// The first token is the command and the rest of the line its argument.
// The loop exits on EOF, on "exit"/"quit", or when ctx is done.
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, c console) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.prompt()

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
		case "help", "h", "?":
			c.println(helpText)
		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, arg)
		case "add", "new":
			_ = a.Add(ctx)
		case "edit":
			_ = a.Edit(ctx, arg)
		case "delete", "rm":
			_ = a.Delete(ctx, arg)
		case "share":
			_ = a.Share(ctx, arg)
		case "shareid":
			_ = a.ShareID(ctx, arg)
		case "open":
			_ = a.Open(ctx, arg)
		case "exit", "quit":
			c.println("Bye!")
			return
		default:
			c.println("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
