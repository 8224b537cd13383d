package provider

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Small HTML traversal helpers shared by the site scrapers. The guides are
// server-rendered pages with loosely consistent class naming, so selection is
// by class substring rather than exact selectors.

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ClassLike reports whether the node's class attribute contains any of the
// given substrings (case-insensitive).
func ClassLike(n *html.Node, substrs ...string) bool {
	class := strings.ToLower(Attr(n, "class"))
	if class == "" {
		return false
	}
	for _, s := range substrs {
		if strings.Contains(class, s) {
			return true
		}
	}
	return false
}

// FindAll walks the subtree depth-first and collects element nodes matching
// the predicate. Matched nodes are not descended into, so nested hits inside
// an already-matched container do not produce duplicates.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && pred(node) {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindFirst returns the first matching element node, or nil.
func FindFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	matches := FindAll(n, pred)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Text flattens the subtree's text content with single-space separators.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// IsElement reports whether the node is one of the named elements.
func IsElement(n *html.Node, names ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, name := range names {
		if n.Data == name {
			return true
		}
	}
	return false
}

var clockPattern = regexp.MustCompile(`\b(\d{1,2})[.:](\d{2})\b`)

// ParseClock finds the first HH:MM or HH.MM fragment in text and anchors it
// to the given date. Returns the zero time when no valid clock is present.
func ParseClock(text string, date time.Time) time.Time {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}
