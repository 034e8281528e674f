package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// GetText returns the concatenated contents of every text node under node,
// attributes and comments are never included.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText trims the text, collapses inner whitespace (including &nbsp;)
// into single spaces and puts the result in NFC form.
func NormalizeText(text string) string {
	text = removeNonPrintable(text)
	text = strings.Join(strings.Fields(text), " ")
	return norm.NFC.String(text)
}

// IsBlank reports if a node is a text node that only holds whitespace.
func IsBlank(node *html.Node) bool {
	return node.Type == html.TextNode && strings.TrimFunc(node.Data, unicode.IsSpace) == ""
}

// GetAttr returns the value of the attribute with the given key.
func GetAttr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
