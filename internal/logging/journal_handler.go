package logging

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// Identifier is the SYSLOG_IDENTIFIER of journal entries.
const Identifier = "camscan"

// journalSend is swapped in tests.
var journalSend = journal.Send

// JournalHandler is a slog.Handler that sends records to the systemd journal.
type JournalHandler struct {
	level  slog.Leveler
	attrs  []groupedAttr
	groups []string
}

// groupedAttr remembers the groups open when the attribute was added.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// NewJournalHandler creates a journal handler that keeps records at or
// above level. A *slog.LevelVar makes the threshold adjustable.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level}
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	priority := mapLevelToPriority(r.Level)

	fields := map[string]string{
		"SYSLOG_IDENTIFIER": Identifier,
	}
	for _, ga := range h.attrs {
		addAttrToFields(fields, ga.attr, ga.groups)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addAttrToFields(fields, attr, h.groups)
		return true
	})

	return journalSend(r.Message, priority, fields)
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	grouped := slices.Clone(h.attrs)
	for _, attr := range attrs {
		grouped = append(grouped, groupedAttr{groups: h.groups, attr: attr})
	}
	return &JournalHandler{
		level:  h.level,
		attrs:  grouped,
		groups: h.groups,
	}
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &JournalHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}

func mapLevelToPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// addAttrToFields flattens attr into upper-case journal fields, joining
// group names with underscores.
func addAttrToFields(fields map[string]string, attr slog.Attr, groups []string) {
	if attr.Equal(slog.Attr{}) {
		return
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, "_") + "_" + key
	}
	key = strings.ToUpper(key)

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		fields[key] = value.String()
	case slog.KindInt64:
		fields[key] = strconv.FormatInt(value.Int64(), 10)
	case slog.KindUint64:
		fields[key] = strconv.FormatUint(value.Uint64(), 10)
	case slog.KindFloat64:
		fields[key] = fmt.Sprintf("%f", value.Float64())
	case slog.KindBool:
		fields[key] = strconv.FormatBool(value.Bool())
	case slog.KindDuration:
		fields[key] = value.Duration().String()
	case slog.KindTime:
		fields[key] = value.Time().Format(time.RFC3339Nano)
	case slog.KindGroup:
		nested := append(slices.Clone(groups), attr.Key)
		for _, a := range value.Group() {
			addAttrToFields(fields, a, nested)
		}
	default:
		fields[key] = value.String()
	}
}

// IsJournalAvailable reports whether the systemd journal socket is reachable.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
