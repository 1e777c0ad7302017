// Package testutils provides helpers for building throwaway .pptx fixtures
// in tests. The generated decks are minimal but structurally honest: slides
// live under ppt/slides/, text sits in p:sp run nodes, tables hang off
// p:graphicFrame the way real presentations lay them out.
package testutils

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
	"testing"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`

const presentationXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`

// 📝 Slide wraps spTree content in a complete slide document
func Slide(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree>` + inner + `</p:spTree></p:cSld>
</p:sld>`
}

// 📝 TextShape builds a shape with one paragraph holding the given runs
func TextShape(runs ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:txBody><a:bodyPr/><a:p>`)
	for _, r := range runs {
		fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r>`, r)
	}
	b.WriteString(`</a:p></p:txBody></p:sp>`)
	return b.String()
}

// 📝 TableRow builds a one-row table; each cell argument may carry multiple
// runs separated by "|" to simulate run-split cell text
func TableRow(cells ...string) string {
	var b strings.Builder
	b.WriteString(`<p:graphicFrame><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tr h="370840">`)
	for _, c := range cells {
		b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:p>`)
		for _, r := range strings.Split(c, "|") {
			fmt.Fprintf(&b, `<a:r><a:t>%s</a:t></a:r>`, r)
		}
		b.WriteString(`</a:p></a:txBody></a:tc>`)
	}
	b.WriteString(`</a:tr></a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

// 💾 WriteDeck writes a .pptx package containing the given slide documents
func WriteDeck(t testing.TB, path string, slides ...string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating deck %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := map[string]string{
		"[Content_Types].xml":  contentTypesXML,
		"_rels/.rels":          relsXML,
		"ppt/presentation.xml": presentationXML,
	}

	// fixed order keeps fixtures deterministic
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "ppt/presentation.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}

	for i, slide := range slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(slide)); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("finalizing deck: %v", err)
	}
}
