// Package replay feeds a recorded simulation session into an observer. It
// plays the part of the host simulator: it owns the register file and
// delivers memory notifications in their recorded order.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChainSafe/vm-observer/observer"
	"github.com/ChainSafe/vm-observer/registers"
)

var (
	accessRegex   = regexp.MustCompile(`^(read|write)\s+((?:0x)?[0-9a-fA-F]+)(?:\s+(program|tool|tooling))?$`)
	registerRegex = regexp.MustCompile(`^reg\s+(\$?[a-z0-9]+)\s+(-?(?:0x[0-9a-fA-F]+|[0-9]+))$`)
)

// EventKind is the type of a recorded event.
type EventKind int

const (
	EventAccess EventKind = iota
	EventRegister
	EventReset
)

// Event is one line of a session log.
type Event struct {
	Line         int
	Kind         EventKind
	Notification observer.Notification
	Register     int
	Value        int32
}

// ParseFile reads a session log from path.
func ParseFile(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening session log: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return Parse(file)
}

// Parse reads a session log. Each non-empty line holds one event:
//
//	read 0x00400000 [program|tool]
//	write 0x10010000 [program|tool]
//	reg $t0 5
//	reset
//
// Text after '#' is a comment.
func Parse(r io.Reader) ([]Event, error) {
	events := make([]Event, 0)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		event, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		event.Line = lineNum
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading session log: %w", err)
	}
	return events, nil
}

func parseLine(line string) (Event, error) {
	switch {
	case line == "reset":
		return Event{Kind: EventReset}, nil
	case accessRegex.MatchString(line):
		matches := accessRegex.FindStringSubmatch(line)
		addr, err := strconv.ParseUint(strings.TrimPrefix(matches[2], "0x"), 16, 32)
		if err != nil {
			return Event{}, fmt.Errorf("invalid address %q: %w", matches[2], err)
		}
		n := observer.Notification{Address: uint32(addr), Kind: observer.Read, Origin: observer.FromProgram}
		if matches[1] == "write" {
			n.Kind = observer.Write
		}
		if matches[3] == "tool" || matches[3] == "tooling" {
			n.Origin = observer.FromTooling
		}
		return Event{Kind: EventAccess, Notification: n}, nil
	case registerRegex.MatchString(line):
		matches := registerRegex.FindStringSubmatch(line)
		index, err := registers.Lookup(matches[1])
		if err != nil {
			return Event{}, err
		}
		value, err := parseValue(matches[2])
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventRegister, Register: index, Value: value}, nil
	default:
		return Event{}, fmt.Errorf("unrecognised event: %s", line)
	}
}

// parseValue accepts signed decimal and 32-bit hexadecimal words.
func parseValue(str string) (int32, error) {
	v, err := strconv.ParseInt(str, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid register value %q: %w", str, err)
	}
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, fmt.Errorf("register value out of range: %s", str)
	}
	return int32(v), nil
}

// Result summarises a replay.
type Result struct {
	Events    int
	Delivered int
	Skipped   int
	Resets    int
	Errors    []error
}

// Run applies events in order. Register events update regs, access events
// are delivered to obs and reset events reset both. Observer errors are
// collected and never stop the replay; only ctx cancellation does.
func Run(ctx context.Context, events []Event, regs *registers.File, obs *observer.Observer) (Result, error) {
	var res Result
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Events++
		switch event.Kind {
		case EventRegister:
			if err := regs.Set(event.Register, event.Value); err != nil {
				return res, fmt.Errorf("line %d: %w", event.Line, err)
			}
		case EventReset:
			regs.Reset()
			obs.Reset()
			res.Resets++
		case EventAccess:
			res.Delivered++
			if err := obs.Notify(event.Notification); err != nil {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", event.Line, err))
			}
		}
	}
	return res, nil
}
