// Package pptx reads and writes PowerPoint (.pptx) packages and performs
// placeholder substitution inside their slides.
//
// A .pptx file is a zip archive. Only the slide parts (ppt/slides/slideN.xml)
// are parsed; every other entry is carried through byte-for-byte on save, so a
// presentation survives a load/save round trip untouched apart from the slides
// that were actually modified.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🗺️ slideEntryRe matches slide parts inside the package
var slideEntryRe = regexp.MustCompile(`^ppt/slides/slide[0-9]+\.xml$`)

// 📦 Presentation is an opened template package
type Presentation struct {
	path    string
	entries []packageEntry
	slides  map[string]*xmlquery.Node
}

// packageEntry is one zip entry in original archive order
type packageEntry struct {
	name string
	data []byte
}

// 🎯 Open reads a .pptx package and parses its slide XML. The file handle is
// released before Open returns; the whole package is held in memory.
func Open(ctx context.Context, path string) (*Presentation, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("opening template")

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Errorf("opening template: %w", err)
	}
	defer zr.Close()

	prs := &Presentation{
		path:   path,
		slides: make(map[string]*xmlquery.Node),
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Errorf("opening entry %s: %w", f.Name, err)
		}

		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Errorf("reading entry %s: %w", f.Name, err)
		}

		prs.entries = append(prs.entries, packageEntry{name: f.Name, data: data})

		if slideEntryRe.MatchString(f.Name) {
			doc, err := xmlquery.Parse(bytes.NewReader(data))
			if err != nil {
				return nil, errors.Errorf("parsing slide %s: %w", f.Name, err)
			}
			prs.slides[f.Name] = doc
		}
	}

	logger.Debug().Int("slides", len(prs.slides)).Int("entries", len(prs.entries)).Msg("template opened")
	return prs, nil
}

// 🔢 SlideCount returns the number of slide parts in the package
func (prs *Presentation) SlideCount() int {
	return len(prs.slides)
}

// 📝 Text returns the visible text of each slide in package order. Runs are
// joined with newlines; used for diagnostics and tests.
func (prs *Presentation) Text() []string {
	var out []string
	for _, e := range prs.entries {
		doc, ok := prs.slides[e.name]
		if !ok {
			continue
		}

		var parts []string
		for _, n := range xmlquery.Find(doc, "//a:t") {
			parts = append(parts, n.InnerText())
		}
		out = append(out, strings.Join(parts, "\n"))
	}
	return out
}

// 💾 SaveAs writes the package to path. Modified slides are re-serialized;
// all other entries are copied verbatim in their original order.
func (prs *Presentation) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("creating output: %w", err)
	}

	zw := zip.NewWriter(f)
	for _, e := range prs.entries {
		w, err := zw.Create(e.name)
		if err != nil {
			zw.Close()
			f.Close()
			return errors.Errorf("creating entry %s: %w", e.name, err)
		}

		data := e.data
		if doc, ok := prs.slides[e.name]; ok {
			data = []byte(doc.OutputXML(false))
		}

		if _, err := w.Write(data); err != nil {
			zw.Close()
			f.Close()
			return errors.Errorf("writing entry %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return errors.Errorf("finalizing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing output: %w", err)
	}

	return nil
}
