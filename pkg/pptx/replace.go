package pptx

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// 🔄 ReplacementMap maps literal placeholder tokens (e.g. "{{name}}") to their
// substitution values.
type ReplacementMap map[string]string

// Slide tree queries. Shape text lives in runs under p:sp; table text lives in
// cells under a:tbl (tables hang off p:graphicFrame, not p:sp, so the two
// walks never visit the same node).
const (
	shapeRunQuery  = "//p:sp//a:r/a:t"
	tableCellQuery = "//a:tbl//a:tc"
	cellParaQuery  = "a:txBody/a:p"
)

// 🔍 Replace substitutes every matching token across all slides and returns a
// diagnostic count of replacement events: one per token per run node, one per
// token per table cell. A node whose text matches no token is left untouched.
//
// Tokens are matched against a single run's literal text, or against a table
// cell's concatenated text. A placeholder split across two runs of a text
// frame is never recognized.
func (prs *Presentation) Replace(m ReplacementMap) int {
	count := 0
	for _, e := range prs.entries {
		doc, ok := prs.slides[e.name]
		if !ok {
			continue
		}
		count += replaceShapeRuns(doc, m)
		count += replaceTableCells(doc, m)
	}
	return count
}

// replaceShapeRuns rewrites matching run text inside shape text frames
func replaceShapeRuns(doc *xmlquery.Node, m ReplacementMap) int {
	count := 0
	for _, node := range xmlquery.Find(doc, shapeRunQuery) {
		orig := node.InnerText()
		text := orig
		for token, value := range m {
			if strings.Contains(text, token) {
				text = strings.ReplaceAll(text, token, value)
				count++
			}
		}
		if text != orig {
			setText(node, text)
		}
	}
	return count
}

// replaceTableCells rewrites matching cell text. Matching happens against the
// cell's concatenated text, so a token split across runs inside one cell is
// still found; a changed cell collapses to plain paragraphs of single runs,
// which is how desktop applications rewrite cell text as well.
func replaceTableCells(doc *xmlquery.Node, m ReplacementMap) int {
	count := 0
	for _, cell := range xmlquery.Find(doc, tableCellQuery) {
		orig := cellText(cell)
		text := orig
		for token, value := range m {
			if strings.Contains(text, token) {
				text = strings.ReplaceAll(text, token, value)
				count++
			}
		}
		if text != orig {
			setCellText(cell, text)
		}
	}
	return count
}

// cellText returns a cell's visible text: runs concatenated per paragraph,
// paragraphs joined with newlines.
func cellText(cell *xmlquery.Node) string {
	var paras []string
	for _, p := range xmlquery.Find(cell, cellParaQuery) {
		var b strings.Builder
		for _, t := range xmlquery.Find(p, ".//a:t") {
			b.WriteString(t.InnerText())
		}
		paras = append(paras, b.String())
	}
	return strings.Join(paras, "\n")
}

// setCellText replaces a cell's paragraphs with plain paragraphs holding the
// given text, one paragraph per line. Body properties and list styles on the
// text body are preserved.
func setCellText(cell *xmlquery.Node, text string) {
	txBody := xmlquery.FindOne(cell, "a:txBody")
	if txBody == nil {
		return
	}

	for _, p := range xmlquery.Find(txBody, "a:p") {
		xmlquery.RemoveFromTree(p)
	}

	for _, line := range strings.Split(text, "\n") {
		para := newElem("a", "p")
		run := newElem("a", "r")
		t := newElem("a", "t")
		setText(t, line)
		xmlquery.AddChild(run, t)
		xmlquery.AddChild(para, run)
		xmlquery.AddChild(txBody, para)
	}
}

// setText replaces an element's children with a single text node
func setText(n *xmlquery.Node, s string) {
	n.FirstChild = nil
	n.LastChild = nil
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: s})
}

// newElem builds a prefixed element node
func newElem(prefix, name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: prefix, Data: name}
}
