package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given command names plus the
// shell's own help and exit.
func NewCompleter(commands []string) *Completer {
	all := make([]string, 0, len(commands)+2)
	all = append(all, commands...)
	all = append(all, "HELP", "EXIT")
	return &Completer{commands: all}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToUpper(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
