package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/brunobiangulo/slidegen/deck"
)

// pxToPt converts pixel dimensions (assumed 96 dpi) to points.
const pxToPt = 0.75

type PPTXParser struct{}

func (p *PPTXParser) SupportedFormats() []string { return []string{"pptx"} }

// Parse extracts one deck slide per pptx slide. Each text body in the
// slide's shape tree becomes one content block (its paragraphs joined
// by newlines), preserving the block structure the analyzer classifies
// on. Embedded pictures are carried as image data elements.
func (p *PPTXParser) Parse(ctx context.Context, path string) (*deck.Deck, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}
	defer r.Close()

	// Build file index for quick lookup
	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	// Collect slide files (ppt/slides/slide1.xml, slide2.xml, ...)
	slideFiles := make(map[int]*zip.File)
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			num := extractSlideNumber(f.Name)
			if num > 0 {
				slideFiles[num] = f
			}
		}
	}

	nums := make([]int, 0, len(slideFiles))
	for n := range slideFiles {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	d := &deck.Deck{Title: strings.TrimSuffix(filepath.Base(path), ".pptx")}
	for _, num := range nums {
		f := slideFiles[num]
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		slide := deck.Slide{
			Blocks: extractSlideBlocks(data),
			Images: extractSlideImages(data, num, fileIndex),
		}
		if len(slide.Blocks) == 0 && len(slide.Images) == 0 {
			continue
		}
		d.Slides = append(d.Slides, slide)
	}

	if len(d.Slides) == 0 {
		return nil, fmt.Errorf("no content found in PPTX")
	}
	return d, nil
}

// pptxSlide simplified XML structure
type pptxSlide struct {
	CSld struct {
		SpTree struct {
			SPs []pptxSP `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type pptxSP struct {
	TxBody *pptxTxBody `xml:"txBody"`
}

type pptxTxBody struct {
	Paras []pptxAPara `xml:"p"`
}

type pptxAPara struct {
	Runs []pptxARun `xml:"r"`
}

type pptxARun struct {
	Text string `xml:"t"`
}

// extractSlideBlocks returns one content block per text body: a title
// placeholder stays a separate block from the body placeholder, which
// is exactly the block granularity the analyzer expects.
func extractSlideBlocks(data []byte) []string {
	var slide pptxSlide
	if err := xml.Unmarshal(data, &slide); err != nil {
		return nil
	}

	var blocks []string
	for _, sp := range slide.CSld.SpTree.SPs {
		if sp.TxBody == nil {
			continue
		}
		var lines []string
		for _, para := range sp.TxBody.Paras {
			var line strings.Builder
			for _, run := range para.Runs {
				line.WriteString(run.Text)
			}
			if t := strings.TrimSpace(line.String()); t != "" {
				lines = append(lines, t)
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return blocks
}

// pptxRelationships matches the OOXML .rels structure.
type pptxRelationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// extractSlideImages pulls embedded pictures out of one slide's XML
// via its relationship file (a:blip r:embed="rIdN").
func extractSlideImages(slideXML []byte, slideNum int, fileIndex map[string]*zip.File) []deck.Image {
	relsPath := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum)
	rels := parseRels(fileIndex, relsPath)
	if rels == nil {
		return nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(slideXML))

	var images []deck.Image
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "blip" {
			continue
		}

		var embedID string
		for _, attr := range se.Attr {
			if attr.Name.Local == "embed" {
				embedID = attr.Value
				break
			}
		}
		if embedID == "" {
			continue
		}
		target, ok := rels[embedID]
		if !ok {
			continue
		}

		// Targets are relative to ppt/slides/
		mediaPath := filepath.Clean("ppt/slides/" + target)
		mediaPath = strings.ReplaceAll(mediaPath, "\\", "/")

		zf := fileIndex[mediaPath]
		if zf == nil {
			slog.Debug("pptx: image file not found in ZIP", "path", mediaPath, "rId", embedID)
			continue
		}
		imgRC, err := zf.Open()
		if err != nil {
			continue
		}
		imgData, err := io.ReadAll(imgRC)
		imgRC.Close()
		if err != nil {
			continue
		}

		mimeType := mimeFromExt(filepath.Ext(zf.Name))
		if mimeType == "" {
			continue
		}
		w, h := imageSize(imgData)
		if w < 32 || h < 32 {
			// Skip decorations and tiny glyphs
			continue
		}

		images = append(images, deck.Image{
			Data:     imgData,
			MIMEType: mimeType,
			Name:     filepath.Base(zf.Name),
			Position: deck.Point{X: 420, Y: 120},
			Size:     deck.Size{W: float64(w) * pxToPt, H: float64(h) * pxToPt},
		})
	}
	return images
}

// parseRels reads an OOXML .rels file and returns rId -> target.
func parseRels(fileIndex map[string]*zip.File, relsPath string) map[string]string {
	relsFile := fileIndex[relsPath]
	if relsFile == nil {
		return nil
	}
	rc, err := relsFile.Open()
	if err != nil {
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}

	var rels pptxRelationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	result := make(map[string]string, len(rels.Rels))
	for _, rel := range rels.Rels {
		result[rel.ID] = rel.Target
	}
	return result
}

func extractSlideNumber(name string) int {
	// Extract number from "ppt/slides/slide1.xml"
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

func mimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return ""
	}
}

// imageSize returns pixel dimensions, or zeros for undecodable data.
func imageSize(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
