package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements never make it into the page.
var droppedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Base:   true,
	atom.Meta:   true,
	atom.Link:   true,
}

// SanitizeFragment parses an HTML fragment as body content and re-serializes
// it without scripts, embedded frames, event handler attributes, or
// javascript: URLs. Whole documents are accepted; only their body is kept.
func SanitizeFragment(data []byte) (template.HTML, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), context)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		clean(n)
		if dropped(n) {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

func dropped(n *html.Node) bool {
	return n.Type == html.CommentNode || (n.Type == html.ElementNode && droppedElements[n.DataAtom])
}

func clean(n *html.Node) {
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src" || key == "action") && unsafeURL(a.Val) {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dropped(c) {
			n.RemoveChild(c)
		} else {
			clean(c)
		}
		c = next
	}
}

func unsafeURL(v string) bool {
	v = strings.ToLower(strings.Join(strings.Fields(v), ""))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}
