// Package testsupport provides fixtures shared by package tests: minimal
// pptx decks and file helpers.
package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SlideSpec describes one slide in a generated test deck.
type SlideSpec struct {
	Hidden bool
	Notes  string
}

// WriteDeck assembles a minimal but structurally valid pptx package at path.
// Slides appear in the given order; slides with non-empty notes get a notes
// part wired through the usual relationship plumbing.
func WriteDeck(t testing.TB, path string, slides ...SlideSpec) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	addPart := func(name, content string) {
		w, err := archive.Create(name)
		if err != nil {
			t.Fatalf("create part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write part %s: %v", name, err)
		}
	}

	var slideIDs strings.Builder
	var presentationRels strings.Builder
	for i := range slides {
		n := i + 1
		fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		fmt.Fprintf(&presentationRels,
			`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`,
			n, n)
	}

	addPart("ppt/presentation.xml", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><p:sldIdLst>%s</p:sldIdLst></p:presentation>`,
		slideIDs.String()))
	addPart("ppt/_rels/presentation.xml.rels", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">%s</Relationships>`,
		presentationRels.String()))

	for i, slide := range slides {
		n := i + 1
		showAttr := ""
		if slide.Hidden {
			showAttr = ` show="0"`
		}
		addPart(fmt.Sprintf("ppt/slides/slide%d.xml", n), fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"%s><p:cSld><p:spTree/></p:cSld></p:sld>`,
			showAttr))

		if slide.Notes == "" {
			continue
		}
		addPart(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/></Relationships>`,
			n))
		addPart(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notesSlideXML(slide.Notes))
	}

	if err := archive.Close(); err != nil {
		t.Fatalf("close deck archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write deck %s: %v", path, err)
	}
}

func notesSlideXML(notes string) string {
	var paragraphs strings.Builder
	for _, line := range strings.Split(notes, "\n") {
		paragraphs.WriteString("<a:p><a:r><a:t>")
		_ = xml.EscapeText(&paragraphs, []byte(line))
		paragraphs.WriteString("</a:t></a:r></a:p>")
	}
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr></p:sp>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:txBody>%s</p:txBody></p:sp>
<p:sp><p:nvSpPr><p:nvPr><p:ph type="sldNum" idx="10"/></p:nvPr></p:nvSpPr><p:txBody><a:p><a:r><a:t>1</a:t></a:r></a:p></p:txBody></p:sp>
</p:spTree></p:cSld>
</p:notes>`,
		paragraphs.String())
}
