// Package diagram turns Mermaid flowchart markup, as emitted by the LLM,
// into an ordered list of roadmap nodes.
package diagram

import (
	"regexp"
	"strings"
)

// Node is one step extracted from a flowchart definition.
type Node struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	fenceRe = regexp.MustCompile("(?s)```\\s*mermaid[ \t]*\n(.*?)```")

	// Shape variants: A[x], A([x]), A[[x]], A[(x)], A((x)), A(x), A{{x}}, A{x}, A>x]
	labelRe = regexp.MustCompile(`^([A-Za-z][\w-]*)\s*(?:\(\[([^\]]*)\]\)|\[\[([^\]]*)\]\]|\[\(([^)]*)\)\]|\[([^\]]*)\]|\(\(([^)]*)\)\)|\(([^)]*)\)|\{\{([^}]*)\}\}|\{([^}]*)\}|>([^\]]*)\])`)

	arrowRe = regexp.MustCompile(`\s*(?:<?-{2,}>|<?={2,}>|-\.+->|-{3,})\s*`)
	// edgeRe recognizes only directed connectors. Unlike arrowRe it must not
	// match a bare `---`, which is also a markdown divider in prose replies.
	edgeRe    = regexp.MustCompile(`<?-{2,}>|<?={2,}>|-\.+->`)
	bareKeyRe = regexp.MustCompile(`^([A-Za-z][\w-]*)\b`)
	classRe   = regexp.MustCompile(`:::[\w-]+`)
	pipeRe    = regexp.MustCompile(`\|[^|]*\|`)

	brRe          = regexp.MustCompile(`(?i)<br\s*/?>`)
	doubleBreakRe = regexp.MustCompile(`\n[ \t]*\n`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// keywords opening Mermaid statements that carry no node data.
var keywords = map[string]bool{
	"flowchart": true,
	"graph":     true,
	"classdef":  true,
	"class":     true,
	"style":     true,
	"linkstyle": true,
	"subgraph":  true,
	"end":       true,
	"direction": true,
	"click":     true,
}

// Extract parses flowchart markup out of raw provider text and returns the
// declared nodes in order of first appearance. Keys referenced only by edges
// become nodes titled by their key. An input with no recognizable diagram
// content yields an empty result, never an error.
func Extract(raw string) []Node {
	body := diagramBody(raw)
	if body == "" {
		return nil
	}

	var order []string
	nodes := map[string]*Node{}
	labeled := map[string]bool{}

	declare := func(key, label string) {
		n, seen := nodes[key]
		if !seen {
			n = &Node{Key: key, Title: key}
			nodes[key] = n
			order = append(order, key)
		}
		if label == "" || labeled[key] {
			return
		}
		title, desc := splitLabel(label)
		if title == "" {
			return
		}
		n.Title = title
		n.Description = desc
		labeled[key] = true
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if first := strings.ToLower(strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == '\t' })[0]); keywords[first] {
			continue
		}
		line = pipeRe.ReplaceAllString(line, " ")
		hasEdge := arrowRe.MatchString(line)

		segments := []string{line}
		if hasEdge {
			segments = arrowRe.Split(line, -1)
		}
		for _, seg := range segments {
			seg = strings.TrimSpace(classRe.ReplaceAllString(seg, ""))
			if seg == "" {
				continue
			}
			if m := labelRe.FindStringSubmatch(seg); m != nil {
				// Off an edge line, a declaration must be the whole statement;
				// "Python (a great choice) is fine" is prose, not a node.
				if hasEdge || strings.TrimRight(seg[len(m[0]):], "; \t") == "" {
					declare(m[1], firstGroup(m[2:]))
				}
				continue
			}
			if !hasEdge {
				// A bare word outside an edge line is prose, not a node.
				continue
			}
			if m := bareKeyRe.FindStringSubmatch(seg); m != nil {
				declare(m[1], "")
			}
		}
	}

	out := make([]Node, 0, len(order))
	for _, key := range order {
		out = append(out, *nodes[key])
	}
	return out
}

// StripDiagram removes fenced Mermaid blocks from raw, leaving the prose
// around them for display.
func StripDiagram(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// Source returns the diagram markup Extract would scan, for persisting
// alongside the extracted nodes. Empty when raw holds no diagram.
func Source(raw string) string {
	return strings.TrimSpace(diagramBody(raw))
}

// diagramBody isolates the text Extract should scan: the first fenced Mermaid
// block when present, the whole input when it carries a directed edge or opens
// with a flowchart header, nothing otherwise.
func diagramBody(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if edgeRe.MatchString(raw) {
		return raw
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if fields := strings.Fields(line); fields[0] == "flowchart" || fields[0] == "graph" {
			return raw
		}
		return ""
	}
	return ""
}

func firstGroup(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return ""
}

// splitLabel cleans a raw node label and splits it into title and description
// on the first colon or blank-line marker.
func splitLabel(label string) (string, string) {
	s := strings.Trim(label, `"' `)
	s = brRe.ReplaceAllString(s, "\n")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '(', ')', '{', '}', '|':
			return -1
		}
		return r
	}, s)

	var title, desc string
	if loc := doubleBreakRe.FindStringIndex(s); loc != nil {
		title, desc = s[:loc[0]], s[loc[1]:]
	} else if i := strings.Index(s, ":"); i >= 0 {
		title, desc = s[:i], s[i+1:]
	} else {
		title = s
	}
	return collapse(title), collapse(desc)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
