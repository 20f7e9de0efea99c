// Package annotate writes highlight annotations into a copy of a PDF.
//
// A Writer collects highlights per page while the pipeline runs, then
// produces the output document in one pass: the source file is copied
// object by object and the touched page dictionaries pick up their new
// annotation references on the way through. The input file is never
// modified.
package annotate

import (
	"fmt"
	"maps"
	"sort"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/annotation"
	"seehuhn.de/go/pdf/graphics/color"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/colormap"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/errors"
	"github.com/JuninhoFreitas/moonreader-export-pdf-with-highlights/core/pdftext"
)

// highlight is one queued annotation.
type highlight struct {
	quads []pdftext.Quad
	color colormap.RGB
	note  string
}

// Writer accumulates highlights for a source document and writes the
// annotated copy.
type Writer struct {
	inPath   string
	numPages int
	perPage  map[int][]highlight
	count    int
}

// NewWriter validates the source document and prepares an empty batch.
func NewWriter(inPath string) (*Writer, error) {
	r, err := pdf.Open(inPath, nil)
	if err != nil {
		return nil, errors.NewDocument("open", inPath, err)
	}
	defer r.Close()

	pageRefs, err := pagetree.FindPages(r)
	if err != nil {
		return nil, errors.NewDocument("open", inPath, err)
	}

	return &Writer{
		inPath:   inPath,
		numPages: len(pageRefs),
		perPage:  make(map[int][]highlight),
	}, nil
}

// NumPages returns the source document's page count.
func (w *Writer) NumPages() int {
	return w.numPages
}

// Count returns the number of highlights queued so far.
func (w *Writer) Count() int {
	return w.count
}

// Add queues a highlight covering quads on the zero-based page, colored
// col, with the original highlight text attached as the annotation note.
// Invalid regions are rejected here so one bad highlight cannot spoil
// the final write.
func (w *Writer) Add(page int, quads []pdftext.Quad, col colormap.RGB, note string) error {
	if page < 0 || page >= w.numPages {
		return fmt.Errorf("page %d out of range [0, %d)", page, w.numPages)
	}
	if len(quads) == 0 {
		return fmt.Errorf("no regions to highlight on page %d", page)
	}
	for _, q := range quads {
		if q.Bounds().IsEmpty() {
			return fmt.Errorf("degenerate region on page %d", page)
		}
	}

	w.perPage[page] = append(w.perPage[page], highlight{
		quads: quads,
		color: col,
		note:  note,
	})
	w.count++
	return nil
}

// WriteFile writes the annotated copy of the source document to outPath.
// The batch may be empty; the output is then a plain copy.
func (w *Writer) WriteFile(outPath string) error {
	r, err := pdf.Open(w.inPath, nil)
	if err != nil {
		return errors.NewDocument("open", w.inPath, err)
	}
	defer r.Close()

	if err := w.copyWith(r, outPath); err != nil {
		return errors.NewDocument("save", outPath, err)
	}
	return nil
}

func (w *Writer) copyWith(r pdf.Getter, outPath string) error {
	pageRefs, err := pagetree.FindPages(r)
	if err != nil {
		return err
	}

	// Highlight annotations need PDF 1.3.
	v := pdf.GetVersion(r)
	if v < pdf.V1_3 {
		v = pdf.V1_3
	}
	out, err := pdf.Create(outPath, v, nil)
	if err != nil {
		return err
	}

	rm := pdf.NewResourceManager(out)
	copier := pdf.NewCopier(out, r)

	// Pages gaining annotations must be redirected before the page tree
	// is copied, so the copied tree points at the dictionaries written
	// below instead of plain copies.
	pages := make([]int, 0, len(w.perPage))
	newRefs := make(map[int]pdf.Reference, len(w.perPage))
	for idx := range w.perPage {
		pages = append(pages, idx)
		newRef := out.Alloc()
		copier.Redirect(pageRefs[idx], newRef)
		newRefs[idx] = newRef
	}
	sort.Ints(pages)

	newCatalog, err := pdf.CopierCopyStruct(copier, r.GetMeta().Catalog)
	if err != nil {
		return err
	}
	out.GetMeta().Catalog = newCatalog

	if info := r.GetMeta().Info; info != nil {
		newInfo, err := pdf.CopierCopyStruct(copier, info)
		if err != nil {
			return err
		}
		out.GetMeta().Info = newInfo
	}
	out.GetMeta().ID = r.GetMeta().ID

	for _, idx := range pages {
		if err := w.writePage(r, out, rm, copier, pageRefs[idx], newRefs[idx], w.perPage[idx]); err != nil {
			return err
		}
	}

	if err := rm.Close(); err != nil {
		return err
	}
	return out.Close()
}

// writePage copies one page dictionary and appends the page's new
// annotation references to its Annots array.
func (w *Writer) writePage(r pdf.Getter, out *pdf.Writer, rm *pdf.ResourceManager,
	copier *pdf.Copier, origRef, newRef pdf.Reference, batch []highlight) error {

	orig, err := pdf.GetDictTyped(r, origRef, "Page")
	if err != nil {
		return err
	}

	// Annots is rebuilt below; copy everything else as-is.
	trimmed := maps.Clone(orig)
	delete(trimmed, "Annots")
	dict, err := copier.CopyDict(trimmed)
	if err != nil {
		return err
	}

	var annots pdf.Array
	if origAnnots, err := pdf.GetArray(r, orig["Annots"]); err == nil && origAnnots != nil {
		annots, err = copier.CopyArray(origAnnots)
		if err != nil {
			return err
		}
	}

	for _, h := range batch {
		obj, err := markup(h).Encode(rm)
		if err != nil {
			return err
		}
		ref := out.Alloc()
		if err := out.Put(ref, obj); err != nil {
			return err
		}
		annots = append(annots, ref)
	}
	dict["Annots"] = annots

	return out.Put(newRef, dict)
}

// markup builds the text-markup annotation for one highlight.
func markup(h highlight) *annotation.TextMarkup {
	bounds := h.quads[0].Bounds()
	quadPoints := make([]vec.Vec2, 0, len(h.quads)*4)
	for _, q := range h.quads {
		bounds = bounds.Union(q.Bounds())
		for _, p := range q {
			quadPoints = append(quadPoints, vec.Vec2{X: p.X, Y: p.Y})
		}
	}

	return &annotation.TextMarkup{
		Common: annotation.Common{
			Rect: pdf.Rectangle{
				LLx: bounds.X0,
				LLy: bounds.Y0,
				URx: bounds.X1,
				URy: bounds.Y1,
			},
			Contents: h.note,
			Flags:    annotation.FlagPrint,
			Color:    color.DeviceRGB{h.color.R, h.color.G, h.color.B},
		},
		Type:       annotation.TextMarkupTypeHighlight,
		QuadPoints: quadPoints,
	}
}
