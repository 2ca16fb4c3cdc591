package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	relationshipNS = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	notesSlideRel  = relationshipNS + "/notesSlide"
)

// pptxReader reads an OOXML presentation package. The slide ID list in
// ppt/presentation.xml defines slide order; each entry resolves to a slide
// part through the presentation relationships.
type pptxReader struct {
	archive *zip.ReadCloser
	parts   map[string]*zip.File
	// slideParts[i] is the part name for deck position i+1.
	slideParts []string
}

func openPPTX(deckPath string) (*pptxReader, error) {
	archive, err := zip.OpenReader(deckPath)
	if err != nil {
		return nil, fmt.Errorf("open deck package: %w", err)
	}

	reader := &pptxReader{
		archive: archive,
		parts:   make(map[string]*zip.File, len(archive.File)),
	}
	for _, file := range archive.File {
		reader.parts[path.Clean(file.Name)] = file
	}

	if err := reader.loadSlideOrder(); err != nil {
		archive.Close()
		return nil, err
	}
	return reader, nil
}

func (r *pptxReader) Close() error {
	return r.archive.Close()
}

func (r *pptxReader) SlideCount() int {
	return len(r.slideParts)
}

// Visibility inspects the show attribute on the slide root element. Any
// failure to read or parse the part yields VisibilityUnknown (fail-open).
func (r *pptxReader) Visibility(sourceIndex int) Visibility {
	partName, ok := r.slidePart(sourceIndex)
	if !ok {
		return VisibilityUnknown
	}
	content, err := r.readPart(partName)
	if err != nil {
		return VisibilityUnknown
	}

	decoder := xml.NewDecoder(strings.NewReader(content))
	for {
		token, err := decoder.Token()
		if err != nil {
			return VisibilityUnknown
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "sld" {
			return VisibilityUnknown
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "show" && attr.Value == "0" {
				return VisibilityHidden
			}
		}
		return VisibilityVisible
	}
}

// Notes returns the speaker notes text for the slide, or the empty string
// when the slide has no notes part.
func (r *pptxReader) Notes(sourceIndex int) (string, error) {
	partName, ok := r.slidePart(sourceIndex)
	if !ok {
		return "", fmt.Errorf("slide %d out of range", sourceIndex)
	}

	rels, err := r.readRelationships(partName)
	if err != nil {
		return "", fmt.Errorf("slide relationships: %w", err)
	}

	var notesPart string
	for _, rel := range rels {
		if rel.Type == notesSlideRel {
			notesPart = resolveTarget(path.Dir(partName), rel.Target)
			break
		}
	}
	if notesPart == "" {
		return "", nil
	}

	content, err := r.readPart(notesPart)
	if err != nil {
		return "", fmt.Errorf("read notes part: %w", err)
	}
	text, err := extractNotesText(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse notes part: %w", err)
	}
	return text, nil
}

func (r *pptxReader) slidePart(sourceIndex int) (string, bool) {
	if sourceIndex < 1 || sourceIndex > len(r.slideParts) {
		return "", false
	}
	return r.slideParts[sourceIndex-1], true
}

func (r *pptxReader) loadSlideOrder() error {
	const presentationPart = "ppt/presentation.xml"

	content, err := r.readPart(presentationPart)
	if err != nil {
		return fmt.Errorf("read presentation part: %w", err)
	}

	var presentation struct {
		SlideIDList struct {
			SlideIDs []struct {
				RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
			} `xml:"sldId"`
		} `xml:"sldIdLst"`
	}
	if err := xml.Unmarshal([]byte(content), &presentation); err != nil {
		return fmt.Errorf("parse presentation part: %w", err)
	}

	rels, err := r.readRelationships(presentationPart)
	if err != nil {
		return fmt.Errorf("presentation relationships: %w", err)
	}
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		targets[rel.ID] = rel.Target
	}

	for _, slideID := range presentation.SlideIDList.SlideIDs {
		target, ok := targets[slideID.RelID]
		if !ok {
			return fmt.Errorf("presentation references unknown relationship %q", slideID.RelID)
		}
		r.slideParts = append(r.slideParts, resolveTarget("ppt", target))
	}
	if len(r.slideParts) == 0 {
		return fmt.Errorf("deck contains no slides")
	}
	return nil
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// readRelationships loads the .rels part for the given part, which lives in a
// _rels sibling directory. A missing .rels part is not an error.
func (r *pptxReader) readRelationships(partName string) ([]relationship, error) {
	relsPart := path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
	file, ok := r.parts[relsPart]
	if !ok {
		return nil, nil
	}
	content, err := readZipFile(file)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	return doc.Relationships, nil
}

func (r *pptxReader) readPart(partName string) (string, error) {
	file, ok := r.parts[path.Clean(partName)]
	if !ok {
		return "", fmt.Errorf("part %q missing from package", partName)
	}
	return readZipFile(file)
}

func readZipFile(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Clean(path.Join(baseDir, target))
}

// extractNotesText pulls the text of the body placeholder out of a notes
// slide part: paragraphs become lines, runs within a paragraph concatenate.
// Other placeholders on the notes slide (slide image, slide number) are
// skipped.
func extractNotesText(reader io.Reader) (string, error) {
	decoder := xml.NewDecoder(reader)

	var (
		out        []string
		inShape    bool
		phType     string
		inText     bool
		paragraphs []string
		current    strings.Builder
	)

	flushShape := func() {
		if phType != "body" {
			paragraphs = nil
			return
		}
		out = append(out, strings.Join(paragraphs, "\n"))
		paragraphs = nil
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "sp":
				inShape = true
				phType = ""
				paragraphs = nil
			case "ph":
				if inShape {
					for _, attr := range el.Attr {
						if attr.Name.Local == "type" {
							phType = attr.Value
						}
					}
				}
			case "p":
				if inShape {
					current.Reset()
				}
			case "br":
				if inShape {
					current.WriteByte('\n')
				}
			case "t":
				inText = inShape
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "sp":
				if inShape {
					flushShape()
					inShape = false
				}
			case "p":
				if inShape {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}

	return strings.Join(out, "\n"), nil
}
