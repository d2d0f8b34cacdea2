package datatype

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateSamples = []string{
	"today", "tomorrow", "tonight", "this evening", "next week",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"at noon", "in an hour",
}

// DateTime accepts literal dates ("2024-05-01 14:00") with a score of 0 and natural
// language expressions relative to the context clock ("next friday at 5pm"). A natural
// language match covering only part of the text scores by the uncovered fraction.
type DateTime struct {
	base
	parser *when.Parser
	loc    *time.Location
}

func NewDateTime(cfg Config, loc *time.Location, opts ...Option) *DateTime {
	if loc == nil {
		loc = time.Local
	}

	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)

	return &DateTime{
		base:   newBase(KindDateTime, "date", cfg, opts),
		parser: parser,
		loc:    loc,
	}
}

func (d *DateTime) Finite() bool { return false }

func (d *DateTime) Terms() []string {
	if len(d.samples) > 0 {
		return append([]string(nil), d.samples...)
	}
	return append([]string(nil), dateSamples...)
}

func (d *DateTime) Resolve(text string, ctx Context) Result {
	if res, ok := d.resolvePronoun(text, ctx); ok {
		return res
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Reject()
	}

	if t, err := dateparse.ParseIn(text, d.loc); err == nil {
		return Result{Value: t}
	}

	now := time.Now().In(d.loc)
	if ctx != nil {
		now = ctx.Now().In(d.loc)
	}

	r, err := d.parser.Parse(strings.ToLower(text), now)
	if err != nil || r == nil {
		return Reject()
	}

	uncovered := len(text) - len(strings.TrimSpace(r.Text))
	score := float64(uncovered) / float64(len(text))
	if score >= 1 {
		return Reject()
	}
	return Result{Value: r.Time, Score: score, Term: r.Text}
}
