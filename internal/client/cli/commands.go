package cli

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownCommand возвращается для неизвестной команды
var ErrUnknownCommand = errors.New("unknown command")

// Run выполняет команду; args не включают имя команды
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "enqueue":
		return c.runEnqueue(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "status":
		return c.runStatus()
	case "list":
		return c.runList(args)
	case "get":
		return c.runGet(ctx, args)
	case "resolve":
		return c.runResolve(ctx, args)
	case "retry":
		return c.runRetry(ctx, args)
	case "clear":
		return c.runClear(ctx, args)
	case "run":
		return c.runDaemon(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}
