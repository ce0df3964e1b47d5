// Package report renders runner results for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/gnoverse/papagaio/internal/runner"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	addStyle     = color.New(color.FgGreen)
	removeStyle  = color.New(color.FgRed)
	summaryStyle = color.New(color.FgYellow, color.Bold)
)

type Summary struct {
	Files   int
	Changed int
	Cached  int
	Failed  int
	Matches int
	PerRule map[string]int
}

func Summarize(results []runner.Result) Summary {
	s := Summary{Files: len(results), PerRule: make(map[string]int)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			s.Failed++
			continue
		case res.Cached:
			s.Cached++
			continue
		case res.Changed():
			s.Changed++
		}
		s.Matches += res.Stats.Matches
		for rule, n := range res.Stats.PerRule {
			s.PerRule[rule] += n
		}
	}
	return s
}

// WriteSummary prints failures, then one line per changed file, then the
// totals and the per rule counts sorted by rule label.
func WriteSummary(w io.Writer, results []runner.Result, mode runner.Mode) {
	verb := "rewrote"
	if mode == runner.ModeDryRun {
		verb = "would rewrite"
	}

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s%v\n", errorStyle.Sprint("error: "), res.Err)
		}
	}
	for _, res := range results {
		if res.Changed() {
			fmt.Fprintf(w, "%s %s (%d matches)\n", verb, fileStyle.Sprint(res.Path), res.Stats.Matches)
		}
	}

	s := Summarize(results)
	fmt.Fprintln(w, summaryStyle.Sprintf("%d files, %d changed, %d cached, %d failed, %d matches",
		s.Files, s.Changed, s.Cached, s.Failed, s.Matches))

	rules := make([]string, 0, len(s.PerRule))
	for rule := range s.PerRule {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(w, "  %s: %d\n", rule, s.PerRule[rule])
	}
}

// Diff renders the changed lines between before and after. Unchanged lines
// are omitted, except for up to around lines on each side of a change.
func Diff(path, before, after string, around int) string {
	if before == after {
		return ""
	}
	a, b := splitLines(before), splitLines(after)
	groups := difflib.NewMatcherWithJunk(a, b, false, nil).GetGroupedOpCodes(max(around, 0))

	var sb strings.Builder
	sb.WriteString(errorStyle.Sprint("--- ") + fileStyle.Sprint(path) + "\n")
	sb.WriteString(errorStyle.Sprint("+++ ") + fileStyle.Sprint(path) + "\n")

	shown := 0
	for _, group := range groups {
		if group[0].I1 > shown {
			sb.WriteString(lineStyle.Sprint("...") + "\n")
		}
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for k := 0; k < op.I2-op.I1; k++ {
					writeLine(&sb, op.J1+k+1, " "+b[op.J1+k])
				}
			default:
				// 'r', 'd' and 'i': one of the two ranges is empty unless replacing
				for i := op.I1; i < op.I2; i++ {
					writeLine(&sb, i+1, removeStyle.Sprint("-"+a[i]))
				}
				for j := op.J1; j < op.J2; j++ {
					writeLine(&sb, j+1, addStyle.Sprint("+"+b[j]))
				}
			}
		}
		shown = group[len(group)-1].I2
	}
	return sb.String()
}

func writeLine(sb *strings.Builder, no int, text string) {
	sb.WriteString(lineStyle.Sprintf("%4d | ", no))
	sb.WriteString(text + "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
