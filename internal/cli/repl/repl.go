package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Executor runs one command line and returns its reply. quit ends the
// session after the reply is printed.
type Executor interface {
	Handle(line string) (reply string, quit bool)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	completer *Completer
	history   *History
}

// New creates a REPL reading from in and writing to out.
// A nil history disables history recording.
func New(in io.Reader, out io.Writer, exec Executor, completer *Completer, history *History) *REPL {
	return &REPL{
		input:     in,
		output:    out,
		prompt:    "kvfile> ",
		exec:      exec,
		completer: completer,
		history:   history,
	}
}

// Run starts the REPL loop. It returns nil on EOF, exit or a quitting
// command.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r.history != nil {
			r.history.Add(line)
		}

		if r.execute(line) {
			return nil
		}
	}
}

// execute runs one line and reports whether the session should end.
func (r *REPL) execute(line string) bool {
	word, rest, _ := strings.Cut(line, " ")
	switch strings.ToLower(word) {
	case "exit":
		return true
	case "help":
		r.help(strings.TrimSpace(rest))
		return false
	}

	reply, quit := r.exec.Handle(line)
	fmt.Fprintln(r.output, reply)
	return quit
}

func (r *REPL) help(prefix string) {
	if r.completer == nil {
		return
	}
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "no command matches %q\n", prefix)
		return
	}
	fmt.Fprintln(r.output, strings.Join(matches, " "))
}
