package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/fieldsync/internal/client/iocli"
)

// output собирает все, что команда напечатала через IO
type output struct {
	sb strings.Builder
	mu gosync.Mutex
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sb.String()
}

func (o *output) write(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sb.WriteString(s)
}

func newMockIO(out *output, inputs ...string) *iocli.IOMock {
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.write(fmt.Sprintln(a...))
		},
		PrintfFunc: func(format string, a ...any) {
			out.write(fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			out.write(string(p))
			return len(p), nil
		},
		ReadInputFunc: func(prompt string) (string, error) {
			out.write(prompt)
			if len(inputs) == 0 {
				return "", io.EOF
			}
			in := inputs[0]
			inputs = inputs[1:]
			return in, nil
		},
	}
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCli(engine Engine, inputs ...string) (*Cli, *output) {
	out := &output{}
	return New(newMockIO(out, inputs...), engine, nil, nil, setupTestLogger()), out
}

func TestCli_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(&EngineMock{})

	err := c.Run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Contains(t, err.Error(), "frobnicate")
}
