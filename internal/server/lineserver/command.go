package lineserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// Replies shared by several commands.
const (
	replyOK   = "OK"
	replyNil  = "nil"
	replyPong = "PONG"
	replyBye  = "BYE"
)

// command describes one protocol command. minArgs and maxArgs count the
// words after the command name; maxArgs < 0 means unbounded.
type command struct {
	minArgs int
	maxArgs int
	mutates bool
	run     func(s *kvfile.Store, args []string) (string, error)
}

var commands = map[string]command{
	"PING":    {0, 0, false, cmdPing},
	"SET":     {2, -1, true, cmdSet},
	"GET":     {1, 1, false, cmdGet},
	"DEL":     {1, 1, true, cmdDel},
	"EXISTS":  {1, 1, false, cmdExists},
	"KEYS":    {0, 0, false, cmdKeys},
	"COUNT":   {0, 0, false, cmdCount},
	"DUMP":    {0, 0, true, cmdDump},
	"LCREATE": {1, 1, true, cmdListCreate},
	"LPUSH":   {2, -1, true, cmdListPush},
	"LGET":    {2, 2, false, cmdListGet},
	"LLEN":    {1, 1, false, cmdListLen},
	"LPOP":    {2, 2, true, cmdListPop},
	"LDEL":    {1, 1, true, cmdListDel},
}

// Commands returns the protocol command names in sorted order.
func Commands() []string {
	names := make([]string, 0, len(commands)+1)
	for name := range commands {
		names = append(names, name)
	}
	names = append(names, "QUIT")
	sort.Strings(names)
	return names
}

// Handler executes commands against a store shared by all connections.
type Handler struct {
	mu      sync.Mutex
	store   *kvfile.Store
	logger  *slog.Logger
	metrics *metrics
}

// NewHandler creates a Handler serving store.
func NewHandler(store *kvfile.Store, logger *slog.Logger, m *metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = newMetrics(nil)
	}
	return &Handler{store: store, logger: logger, metrics: m}
}

// Handle executes one request line and returns the reply. quit is true
// when the client asked to close the connection.
func (h *Handler) Handle(line string) (reply string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERR no command", false
	}

	name := strings.ToUpper(fields[0])
	args := fields[1:]

	if name == "QUIT" {
		return replyBye, true
	}

	cmd, ok := commands[name]
	if !ok {
		h.metrics.observe("unknown", "error")
		return "ERR unknown command '" + fields[0] + "'", false
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		h.metrics.observe(name, "error")
		return "ERR wrong number of arguments for '" + name + "' command", false
	}

	reply, err := h.run(cmd, args)
	if err != nil {
		h.metrics.observe(name, "error")
		if cmd.mutates && kvfile.KindOf(err) != kvfile.KindUnknown {
			h.logger.Warn("command failed", "cmd", name, "error", err)
		}
		return formatError(err), false
	}
	h.metrics.observe(name, "ok")
	return reply, false
}

func (h *Handler) run(cmd command, args []string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cmd.run(h.store, args)
}

// WithStore runs fn with exclusive access to the store.
func (h *Handler) WithStore(fn func(*kvfile.Store) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.store)
}

// usageError is a client mistake, reported without a kind.
type usageError string

func (e usageError) Error() string { return string(e) }

// formatError converts an error to a reply line.
// Store errors become "ERR <kind> <message>".
func formatError(err error) string {
	var ke *kvfile.Error
	if errors.As(err, &ke) && ke.Err != nil {
		return "ERR " + ke.Kind.String() + " " + ke.Op + ": " + ke.Err.Error()
	}
	return "ERR " + err.Error()
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, usageError(fmt.Sprintf("invalid index %q", s))
	}
	return n, nil
}

// render formats a stored value for a reply. Strings are returned as is;
// anything else written by another client is rendered as compact JSON.
func render(decode func(any) bool) (string, bool) {
	var s string
	if decode(&s) {
		return s, true
	}
	var v any
	if !decode(&v) {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v), true
	}
	return string(b), true
}

func cmdPing(*kvfile.Store, []string) (string, error) {
	return replyPong, nil
}

func cmdSet(s *kvfile.Store, args []string) (string, error) {
	if err := s.Set(args[0], strings.Join(args[1:], " ")); err != nil {
		return "", err
	}
	return replyOK, nil
}

func cmdGet(s *kvfile.Store, args []string) (string, error) {
	v, ok := render(func(dst any) bool { return s.GetInto(args[0], dst) })
	if !ok {
		return replyNil, nil
	}
	return v, nil
}

func cmdDel(s *kvfile.Store, args []string) (string, error) {
	removed, err := s.Remove(args[0])
	if err != nil {
		return "", err
	}
	if !removed {
		return replyNil, nil
	}
	return replyOK, nil
}

func cmdExists(s *kvfile.Store, args []string) (string, error) {
	if s.Exists(args[0]) {
		return "1", nil
	}
	return "0", nil
}

func cmdKeys(s *kvfile.Store, _ []string) (string, error) {
	return strings.Join(s.Keys(), " "), nil
}

func cmdCount(s *kvfile.Store, _ []string) (string, error) {
	return strconv.Itoa(s.Len()), nil
}

func cmdDump(s *kvfile.Store, _ []string) (string, error) {
	if err := s.Dump(); err != nil {
		return "", err
	}
	return replyOK, nil
}

func cmdListCreate(s *kvfile.Store, args []string) (string, error) {
	if _, err := s.ListCreate(args[0]); err != nil {
		return "", err
	}
	return replyOK, nil
}

func cmdListPush(s *kvfile.Store, args []string) (string, error) {
	values := make([]any, 0, len(args)-1)
	for _, v := range args[1:] {
		values = append(values, v)
	}
	ext, err := s.ListExtend(args[0], values...)
	if err != nil {
		return "", err
	}
	if ext == nil {
		return replyNil, nil
	}
	return strconv.Itoa(s.ListLen(args[0])), nil
}

func cmdListGet(s *kvfile.Store, args []string) (string, error) {
	idx, err := parseIndex(args[1])
	if err != nil {
		return "", err
	}
	v, ok := render(func(dst any) bool { return s.ListGetInto(args[0], idx, dst) })
	if !ok {
		return replyNil, nil
	}
	return v, nil
}

func cmdListLen(s *kvfile.Store, args []string) (string, error) {
	return strconv.Itoa(s.ListLen(args[0])), nil
}

func cmdListPop(s *kvfile.Store, args []string) (string, error) {
	idx, err := parseIndex(args[1])
	if err != nil {
		return "", err
	}
	// Peek first so that non-string elements are rendered like LGET does.
	v, ok := render(func(dst any) bool { return s.ListGetInto(args[0], idx, dst) })
	if _, err := s.ListPopInto(args[0], idx, new(any)); err != nil {
		return "", err
	}
	if !ok {
		return replyNil, nil
	}
	return v, nil
}

func cmdListDel(s *kvfile.Store, args []string) (string, error) {
	n, err := s.ListRemoveAll(args[0])
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}
