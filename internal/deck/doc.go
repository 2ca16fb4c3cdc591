// Package deck reads slide decks: slide count, per-slide visibility, and
// speaker notes.
//
// The pptx reader works directly on the OOXML package (a zip of XML parts),
// so enumerating slides and extracting notes needs no external tool. Slide
// ordering follows the presentation's slide ID list, which is the visible
// ordering users see. Visibility is reported as an explicit tri-state;
// callers map Unknown to visible in exactly one place (VisibleSlides).
package deck
