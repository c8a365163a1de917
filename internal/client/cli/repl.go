package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Profile(ctx context.Context, userID string) error
	Follow(ctx context.Context) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, id string) error
	Trades(ctx context.Context) error
	Complete(ctx context.Context, tradeID string) error
	Review(ctx context.Context, tradeID string) error
	Register(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts the read-eval-print loop of the SwapMarket CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	profile <userId>   open a profile (loads the follow button state)
//	follow             toggle the follow edge of the open profile
//	notifications      list the notification feed
//	read <id>          mark one notification as read
//	trades             list trades with their lifecycle state
//	complete <id>      mark a trade complete
//	review <id>        open and submit a review draft for a trade
//	register           create an account (email verification via OTP)
//	reset              verify an email for password reset
//	help, exit, quit
//
// Errors returned by command handlers are ignored here; handlers print
// their own alerts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("swap %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: profile <id>, follow, notifications, read <id>, trades, complete <id>, review <id>, register, reset, exit")

		case "profile":
			if len(args) == 0 {
				printlnFn("Usage: profile <userId>")
				continue
			}
			_ = a.Profile(ctx, args[0])

		case "follow":
			_ = a.Follow(ctx)

		case "notifications", "n":
			_ = a.Notifications(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <notificationId>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "trades", "t":
			_ = a.Trades(ctx)

		case "complete":
			if len(args) == 0 {
				printlnFn("Usage: complete <tradeId>")
				continue
			}
			_ = a.Complete(ctx, args[0])

		case "review":
			if len(args) == 0 {
				printlnFn("Usage: review <tradeId>")
				continue
			}
			_ = a.Review(ctx, args[0])

		case "register":
			_ = a.Register(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
