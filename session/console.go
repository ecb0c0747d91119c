package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"orderdesk/internal/channel"
	"orderdesk/logger"
)

// Command is one console line: a lower-cased verb and the rest of the line.
type Command struct {
	Name string
	Arg  string
}

func (Command) EventName() string { return "command" }

// ParseCommand splits a console line. Blank lines yield ok == false.
func ParseCommand(line string) (cmd Command, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, false
	}
	name, arg := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i:])
	}
	return Command{Name: strings.ToLower(name), Arg: arg}, true
}

const helpText = `commands:
  symbol <s>                     set the order symbol
  side <buy|sell>                set the order side
  type <limit|market|ioc|fok>    set the order type
  qty <n>                        set the quantity
  price <n>                      set the price (limit only)
  form                           show the order form
  submit                         send the order
  cancel <order id>              cancel a resting order
  reset                          restore form defaults
  help                           show this text
  quit                           leave`

// Sink receives console commands.
type Sink interface {
	Send(ctx context.Context, ev channel.Event) bool
}

// Console turns input lines into commands for the session loop.
type Console struct {
	in   io.Reader
	sink Sink
	log  *logger.Log
}

func NewConsole(in io.Reader, sink Sink) *Console {
	return &Console{in: in, sink: sink, log: logger.GetLogger()}
}

// Run reads until the input ends or ctx is done. End of input does not end
// the session; the feed keeps rendering.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		cmd, ok := ParseCommand(scanner.Text())
		if !ok {
			continue
		}
		if !c.sink.Send(ctx, cmd) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read console input: %w", err)
	}
	c.log.WithComponent("console").Info("console input closed")
	return nil
}
