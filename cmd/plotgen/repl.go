package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/njchilds90/goplot"
)

const historyFile = ".plotgen_history"

const replHelp = `Enter a plot source such as "x^2#sin(x)" to sample it.
  :hide 0 2     hide display rows
  :show         clear hidden rows
  :row 1        refresh one row
  :quit         exit`

// repl keeps one coordinator across lines so that hidden rows and the
// complex flag carry over like they would in a renderer.
func repl(f flags, opts goplot.Options, w io.Writer) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if hf, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(hf)
		_ = hf.Close()
	}
	defer func() {
		if hf, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(hf)
			_ = hf.Close()
		}
	}()

	fmt.Fprintln(w, replHelp)
	var (
		c      *goplot.Coordinator
		hidden []int
	)
	for {
		line, err := ln.Prompt("plot> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		cmd, err := parseCommand(line)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if cmd.quit {
			return nil
		}
		if cmd.source != "" {
			reg, err := goplot.NewRegistry(cmd.source, opts, nil, nil)
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			c, hidden = goplot.NewCoordinator(reg), nil
		}
		if c == nil {
			fmt.Fprintln(w, "no plots yet")
			continue
		}
		if cmd.hide != nil {
			hidden = cmd.hide
		}

		req := f.request(c.Registry())
		req.Hidden, req.Target = hidden, cmd.target
		resp, err := c.Update(req)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if err := printTable(w, resp); err != nil {
			return err
		}
	}
}

type command struct {
	source string
	hide   []int
	target *int
	quit   bool
}

func parseCommand(line string) (command, error) {
	if !strings.HasPrefix(line, ":") {
		return command{source: line}, nil
	}
	fields := strings.Fields(line)
	var ints []int
	for _, s := range fields[1:] {
		var n int
		if _, err := fmt.Sscan(s, &n); err != nil {
			return command{}, fmt.Errorf("%s: %q is not a row", fields[0], s)
		}
		ints = append(ints, n)
	}
	switch fields[0] {
	case ":quit", ":q":
		return command{quit: true}, nil
	case ":hide":
		return command{hide: append([]int{}, ints...)}, nil
	case ":show":
		return command{hide: []int{}}, nil
	case ":row":
		if len(ints) != 1 {
			return command{}, errors.New(":row takes one row")
		}
		return command{target: &ints[0]}, nil
	}
	return command{}, fmt.Errorf("unknown command %s", fields[0])
}
