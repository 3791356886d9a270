package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if !a.isOpen() {
		return "locked"
	}
	return a.vaultID
}

// Root runs the interactive loop: unlock, open, then dispatch commands until
// exit or EOF. Command handlers report their own errors; the loop stays up.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "buttervault CLI (type 'help' for commands)")

	if err := a.unlock(ctx); err != nil {
		a.log.Error(ctx, "unlock failed", "error", err)
		return
	}
	if err := a.open(ctx); err != nil {
		a.log.Error(ctx, "open failed", "error", err)
		return
	}

	if !a.ds.SupportsAttachments() {
		fmt.Fprintln(a.out, "Note: this backend does not store attachments")
	}

	for {
		fmt.Fprintf(a.out, "bv (%s)> ", a.getStatus())

		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: list, add, save, attach, fetch, detach, info, exit")
		case "list":
			cmdErr = a.list(ctx)
		case "add":
			cmdErr = a.add(ctx)
		case "save":
			cmdErr = a.save(ctx)
		case "attach":
			cmdErr = a.attach(ctx)
		case "fetch":
			cmdErr = a.fetch(ctx)
		case "detach":
			cmdErr = a.detach(ctx)
		case "info":
			cmdErr = a.info(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}

		if cmdErr != nil {
			a.log.Error(ctx, "command failed", "error", cmdErr)
		}
	}
}
