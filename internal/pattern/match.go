package pattern

import (
	"strings"

	"cattleprices/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Row maps placeholder names to the captured text of a single match.
type Row map[string]string

// Get returns the captured value for name, or "" if nothing was captured.
func (r Row) Get(name string) string {
	return r[name]
}

// Match finds every occurrence of the pattern in the document, in document order.
//
// Repeatable patterns return one Row per occurrence of each Repeat across all
// matching subtrees, other patterns return at most one Row. A document without
// any matching subtree returns an empty result.
func Match(p Pattern, doc *html.Node) []Row {
	if p.root == nil || doc == nil {
		return nil
	}

	var candidates []*html.Node
	if doc.Type == html.ElementNode {
		candidates = append(candidates, doc)
	}
	candidates = append(
		candidates,
		goquery.NewDocumentFromNode(doc).Find(strings.ToLower(p.root.Tag)).Nodes...,
	)

	var rows []Row
	for _, candidate := range candidates {
		matched, ok := matchElement(p.root, candidate)
		if !ok {
			continue
		}
		if !p.repeatable {
			return matched[:1]
		}
		rows = append(rows, matched...)
	}
	return rows
}

// product merges every row of left with every row of right, left-major so
// document order is kept.
func product(left, right []Row) []Row {
	out := make([]Row, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			merged := make(Row, len(l)+len(r))
			for k, v := range l {
				merged[k] = v
			}
			for k, v := range r {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

var unit = []Row{{}}

func matchElement(pat *Element, n *html.Node) ([]Row, bool) {
	if n.Type != html.ElementNode || !strings.EqualFold(n.Data, pat.Tag) {
		return nil, false
	}

	captured := Row{}
	for _, a := range pat.Attrs {
		switch a := a.(type) {
		case AttrEquals:
			value, ok := htmlutil.GetAttr(n, a.Key)
			if !ok || value != a.Value {
				return nil, false
			}
		case AttrCapture:
			value, ok := htmlutil.GetAttr(n, a.Key)
			if !ok {
				return nil, false
			}
			captured[a.Name] = value
		}
	}

	if len(pat.Children) == 0 {
		return []Row{captured}, true
	}
	rows, ok := matchSequence(pat.Children, children(n, pat.Children))
	if !ok {
		return nil, false
	}
	return product([]Row{captured}, rows), true
}

// matchSequence aligns the pattern nodes against the document nodes, returning
// the rows of the first (leftmost, greediest) alignment found.
func matchSequence(pats []Node, docs []*html.Node) ([]Row, bool) {
	if len(pats) == 0 {
		return unit, true
	}
	rest := pats[1:]

	switch pat := pats[0].(type) {
	case *Element:
		for k, n := range docs {
			rows, ok := matchElement(pat, n)
			if !ok {
				continue
			}
			restRows, ok := matchSequence(rest, docs[k+1:])
			if ok {
				return product(rows, restRows), true
			}
		}
		return nil, false

	case Text:
		expected := htmlutil.NormalizeText(string(pat))
		for k, n := range docs {
			if n.Type != html.TextNode || htmlutil.NormalizeText(n.Data) != expected {
				continue
			}
			restRows, ok := matchSequence(rest, docs[k+1:])
			if ok {
				return restRows, true
			}
		}
		return nil, false

	case Capture:
		for end := len(docs); end >= 1; end-- {
			text := nodesText(docs[:end])
			if text == "" {
				continue
			}
			restRows, ok := matchSequence(rest, docs[end:])
			if ok {
				return product([]Row{{string(pat): text}}, restRows), true
			}
		}
		return nil, false

	case *Repeat:
		occurrences := make([][]Row, len(docs))
		for k, n := range docs {
			rows, ok := matchElement(pat.Inner, n)
			if ok {
				occurrences[k] = rows
			}
		}
		for end := len(docs); end >= 0; end-- {
			restRows, ok := matchSequence(rest, docs[end:])
			if !ok {
				continue
			}
			var rows []Row
			for _, occurrence := range occurrences[:end] {
				rows = append(rows, occurrence...)
			}
			return product(rows, restRows), true
		}
		return nil, false
	}

	return nil, false
}

func nodesText(nodes []*html.Node) string {
	var out strings.Builder
	for _, n := range nodes {
		out.WriteString(htmlutil.GetText(n))
	}
	return htmlutil.NormalizeText(out.String())
}

var transparentTags = []string{"tbody", "thead", "tfoot"}

func isTransparent(n *html.Node, pats []Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	transparent := false
	for _, tag := range transparentTags {
		if n.Data == tag {
			transparent = true
			break
		}
	}
	if !transparent {
		return false
	}
	for _, p := range pats {
		var named *Element
		switch p := p.(type) {
		case *Element:
			named = p
		case *Repeat:
			named = p.Inner
		}
		if named != nil && strings.EqualFold(named.Tag, n.Data) {
			return false
		}
	}
	return true
}

// children returns the child nodes relevant for matching: comments, doctypes
// and whitespace-only text are dropped, implicit table sections are flattened.
func children(n *html.Node, pats []Node) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == html.CommentNode || child.Type == html.DoctypeNode:
			continue
		case htmlutil.IsBlank(child):
			continue
		case isTransparent(child, pats):
			out = append(out, children(child, pats)...)
		default:
			out = append(out, child)
		}
	}
	return out
}
