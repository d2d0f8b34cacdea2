package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"CommandCore/pkg/history"
	"CommandCore/pkg/intent"
)

var (
	placeholder     = regexp.MustCompile(`\{([^{}]+)\}`)
	spaceBeforePunc = regexp.MustCompile(`\s+([.,!?])`)
)

type resultSpec struct {
	name string
	from string
	kind string
}

// renderHandler answers a call with the response template filled from its arguments and
// echoes the declared results into the reply.
func renderHandler(response string, results []resultSpec) intent.Handler {
	return func(_ context.Context, call intent.Call) (intent.Reply, error) {
		reply := intent.Reply{Text: Render(response, call.Args)}
		for _, r := range results {
			value, ok := call.Args[r.from]
			if !ok {
				continue
			}
			reply.Results = append(reply.Results, history.Binding{Name: r.name, Kind: r.kind, Value: value})
		}
		return reply, nil
	}
}

// Render replaces "{Name}" placeholders with the matching argument, case-insensitively.
// Placeholders without an argument render empty and the result is whitespace-collapsed.
func Render(tmpl string, args map[string]any) string {
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		for k, v := range args {
			if strings.EqualFold(k, name) {
				return format(v)
			}
		}
		return ""
	})
	out = strings.Join(strings.Fields(out), " ")
	return spaceBeforePunc.ReplaceAllString(out, "$1")
}

func format(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("Monday, January 2 at 15:04")
	default:
		return fmt.Sprint(val)
	}
}
