package builder

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/slides/v1"

	"github.com/brunobiangulo/slidegen/analyzer"
	"github.com/brunobiangulo/slidegen/deck"
	"github.com/brunobiangulo/slidegen/layout"
	"github.com/brunobiangulo/slidegen/unit"
)

// objectID returns a unique element ID with a readable prefix, the way
// object IDs look in decks produced by the API examples.
func objectID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// compileSlide emits the ordered request group for one slide: the page
// itself, its background, then one creation+style+text group per
// element in z-order. Creation always precedes the requests that style
// or fill the created object.
func (b *Builder) compileSlide(plan *Plan, slideIndex int, doc *layout.SlideDocument, settings deck.Settings) error {
	slideID := objectID("slide")
	plan.SlideIDs = append(plan.SlideIDs, slideID)

	idx := int64(slideIndex)
	plan.Requests = append(plan.Requests, &slides.Request{
		CreateSlide: &slides.CreateSlideRequest{
			ObjectId:       slideID,
			InsertionIndex: idx,
			SlideLayoutReference: &slides.LayoutReference{
				PredefinedLayout: "BLANK",
			},
			ForceSendFields: []string{"InsertionIndex"},
		},
	})

	if doc.Background != "" {
		rgb, err := parseHexColor(doc.Background)
		if err != nil {
			return fmt.Errorf("slide %d background: %w", slideIndex, err)
		}
		plan.Requests = append(plan.Requests, &slides.Request{
			UpdatePageProperties: &slides.UpdatePagePropertiesRequest{
				ObjectId: slideID,
				PageProperties: &slides.PageProperties{
					PageBackgroundFill: &slides.PageBackgroundFill{
						SolidFill: &slides.SolidFill{
							Color: &slides.OpaqueColor{RgbColor: rgb},
						},
					},
				},
				Fields: "pageBackgroundFill.solidFill.color",
			},
		})
	}

	for _, el := range doc.Elements {
		var err error
		switch el.Kind {
		case layout.KindText, layout.KindList:
			err = b.compileText(plan, slideID, el)
		case layout.KindImage:
			err = b.compileImage(plan, slideID, slideIndex, el, settings)
		case layout.KindTable:
			err = b.compileTable(plan, slideID, el)
		case layout.KindConnector:
			err = b.compileConnector(plan, slideID, el)
		case layout.KindAccentBox:
			err = b.compileAccentBox(plan, slideID, el)
		default:
			err = fmt.Errorf("unknown element kind %q", el.Kind)
		}
		if err != nil {
			return fmt.Errorf("slide %d: %w", slideIndex, err)
		}
	}
	return nil
}

// compileText emits a text box: create, insert, character style,
// paragraph alignment, and for lists the bullet preset over the full
// range. List glyphs are a style attribute of the range, never
// characters in the inserted text.
func (b *Builder) compileText(plan *Plan, slideID string, el layout.Element) error {
	shapeID := objectID("text")
	plan.Requests = append(plan.Requests, &slides.Request{
		CreateShape: &slides.CreateShapeRequest{
			ObjectId:          shapeID,
			ShapeType:         "TEXT_BOX",
			ElementProperties: elementProperties(slideID, el.Position, el.Size),
		},
	})

	text := el.Text
	if el.Kind == layout.KindList {
		text = strings.Join(el.Items, "\n")
	}
	plan.Requests = append(plan.Requests, &slides.Request{
		InsertText: &slides.InsertTextRequest{
			ObjectId: shapeID,
			Text:     text,
		},
	})

	style, fields, err := textStyle(el.Style)
	if err != nil {
		return err
	}
	plan.Requests = append(plan.Requests, &slides.Request{
		UpdateTextStyle: &slides.UpdateTextStyleRequest{
			ObjectId:  shapeID,
			Style:     style,
			TextRange: &slides.Range{Type: "ALL"},
			Fields:    fields,
		},
	})

	plan.Requests = append(plan.Requests, &slides.Request{
		UpdateParagraphStyle: &slides.UpdateParagraphStyleRequest{
			ObjectId: shapeID,
			Style: &slides.ParagraphStyle{
				Alignment: paragraphAlignment(el.Style.HAlign),
			},
			TextRange: &slides.Range{Type: "ALL"},
			Fields:    "alignment",
		},
	})
	plan.Requests = append(plan.Requests, &slides.Request{
		UpdateShapeProperties: &slides.UpdateShapePropertiesRequest{
			ObjectId: shapeID,
			ShapeProperties: &slides.ShapeProperties{
				ContentAlignment: contentAlignment(el.Style.VAlign),
			},
			Fields: "contentAlignment",
		},
	})

	if el.Kind == layout.KindList {
		plan.Requests = append(plan.Requests, &slides.Request{
			CreateParagraphBullets: &slides.CreateParagraphBulletsRequest{
				ObjectId:     shapeID,
				BulletPreset: bulletPreset(el.ListKind),
				TextRange:    &slides.Range{Type: "ALL"},
			},
		})
	}
	return nil
}

// compileImage emits a CreateImage. Referential images pass their URL
// through. Embedded payloads small enough for the sink travel inline
// as a data URL; anything larger is recorded as a pending upload and
// the URL is filled in during the asset-resolution phase.
func (b *Builder) compileImage(plan *Plan, slideID string, slideIndex int, el layout.Element, settings deck.Settings) error {
	img := el.Image
	pos, size := el.Position, el.Size

	// A background image with no explicit size covers the canvas.
	if img.Background && (size.W <= 0 || size.H <= 0) {
		size.W, size.H = canvasSize(settings.Orientation)
	}

	req := &slides.CreateImageRequest{
		ObjectId:          objectID("image"),
		ElementProperties: elementProperties(slideID, pos, size),
	}

	switch {
	case img.URL != "":
		req.Url = img.URL
	default:
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
		if len(dataURL) > b.cfg.MaxImagePayloadBytes {
			plan.pendingUploads = append(plan.pendingUploads, pendingUpload{
				req:      req,
				data:     append([]byte(nil), img.Data...),
				mimeType: img.MIMEType,
				name:     uploadName(img, slideIndex),
				slide:    slideIndex,
			})
		} else {
			req.Url = dataURL
		}
	}

	plan.Requests = append(plan.Requests, &slides.Request{CreateImage: req})
	return nil
}

// uploadName picks a stable, human-traceable asset name.
func uploadName(img *deck.Image, slideIndex int) string {
	if img.Name != "" {
		return img.Name
	}
	ext := "bin"
	if i := strings.LastIndexByte(img.MIMEType, '/'); i >= 0 && i+1 < len(img.MIMEType) {
		ext = img.MIMEType[i+1:]
	}
	return fmt.Sprintf("slide-%d-image.%s", slideIndex+1, ext)
}

func (b *Builder) compileTable(plan *Plan, slideID string, el layout.Element) error {
	tbl := el.Table
	tableID := objectID("table")
	plan.Requests = append(plan.Requests, &slides.Request{
		CreateTable: &slides.CreateTableRequest{
			ObjectId:          tableID,
			Rows:              int64(len(tbl.Rows)),
			Columns:           int64(len(tbl.Rows[0])),
			ElementProperties: elementProperties(slideID, el.Position, el.Size),
		},
	})

	for r, row := range tbl.Rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			plan.Requests = append(plan.Requests, &slides.Request{
				InsertText: &slides.InsertTextRequest{
					ObjectId: tableID,
					CellLocation: &slides.TableCellLocation{
						RowIndex:    int64(r),
						ColumnIndex: int64(c),
					},
					Text: cell,
				},
			})
		}
	}
	return nil
}

func (b *Builder) compileConnector(plan *Plan, slideID string, el layout.Element) error {
	c := el.Connector
	lineID := objectID("line")

	// The line's bounding box is the rectangle spanned by its
	// endpoints; a negative span flips into a translate at the lesser
	// corner.
	x := min(c.Start.X, c.End.X)
	y := min(c.Start.Y, c.End.Y)
	w := abs(c.End.X - c.Start.X)
	h := abs(c.End.Y - c.Start.Y)

	plan.Requests = append(plan.Requests, &slides.Request{
		CreateLine: &slides.CreateLineRequest{
			ObjectId:          lineID,
			LineCategory:      "STRAIGHT",
			ElementProperties: elementProperties(slideID, deck.Point{X: x, Y: y}, deck.Size{W: w, H: h}),
		},
	})

	props := &slides.LineProperties{}
	fields := []string{}
	if c.Weight > 0 {
		props.Weight = &slides.Dimension{Magnitude: c.Weight, Unit: "PT"}
		fields = append(fields, "weight")
	}
	if c.Arrow {
		props.EndArrow = "FILL_ARROW"
		fields = append(fields, "endArrow")
	}
	if len(fields) > 0 {
		plan.Requests = append(plan.Requests, &slides.Request{
			UpdateLineProperties: &slides.UpdateLinePropertiesRequest{
				ObjectId:       lineID,
				LineProperties: props,
				Fields:         strings.Join(fields, ","),
			},
		})
	}
	return nil
}

func (b *Builder) compileAccentBox(plan *Plan, slideID string, el layout.Element) error {
	rgb, err := parseHexColor(el.Accent.Color)
	if err != nil {
		return fmt.Errorf("accent box: %w", err)
	}

	boxID := objectID("accent")
	plan.Requests = append(plan.Requests, &slides.Request{
		CreateShape: &slides.CreateShapeRequest{
			ObjectId:          boxID,
			ShapeType:         "RECTANGLE",
			ElementProperties: elementProperties(slideID, el.Position, el.Size),
		},
	})
	plan.Requests = append(plan.Requests, &slides.Request{
		UpdateShapeProperties: &slides.UpdateShapePropertiesRequest{
			ObjectId: boxID,
			ShapeProperties: &slides.ShapeProperties{
				ShapeBackgroundFill: &slides.ShapeBackgroundFill{
					SolidFill: &slides.SolidFill{
						Color: &slides.OpaqueColor{RgbColor: rgb},
					},
				},
				Outline: &slides.Outline{PropertyState: "NOT_RENDERED"},
			},
			Fields: "shapeBackgroundFill.solidFill.color,outline.propertyState",
		},
	})
	return nil
}

// elementProperties positions an element on its page, converting the
// point-based layout coordinates to EMU once, here.
func elementProperties(slideID string, pos deck.Point, size deck.Size) *slides.PageElementProperties {
	return &slides.PageElementProperties{
		PageObjectId: slideID,
		Size: &slides.Size{
			Width:  &slides.Dimension{Magnitude: float64(unit.EMU(size.W)), Unit: "EMU"},
			Height: &slides.Dimension{Magnitude: float64(unit.EMU(size.H)), Unit: "EMU"},
		},
		Transform: &slides.AffineTransform{
			ScaleX:     1.0,
			ScaleY:     1.0,
			TranslateX: float64(unit.EMU(pos.X)),
			TranslateY: float64(unit.EMU(pos.Y)),
			Unit:       "EMU",
		},
	}
}

// textStyle converts a layout style into the API's text style plus the
// matching field mask.
func textStyle(s layout.Style) (*slides.TextStyle, string, error) {
	rgb, err := parseHexColor(s.Color)
	if err != nil {
		return nil, "", err
	}
	style := &slides.TextStyle{
		FontFamily: s.FontFamily,
		FontSize:   &slides.Dimension{Magnitude: s.FontSize, Unit: "PT"},
		ForegroundColor: &slides.OptionalColor{
			OpaqueColor: &slides.OpaqueColor{RgbColor: rgb},
		},
		Bold: s.Bold,
	}
	fields := "fontFamily,fontSize,foregroundColor"
	if s.Bold {
		fields += ",bold"
	}
	return style, fields, nil
}

func paragraphAlignment(a deck.HorizontalAlign) string {
	switch a {
	case deck.AlignCenter:
		return "CENTER"
	case deck.AlignRight:
		return "END"
	default:
		return "START"
	}
}

func contentAlignment(a deck.VerticalAlign) string {
	switch a {
	case deck.AlignMiddle:
		return "MIDDLE"
	case deck.AlignBottom:
		return "BOTTOM"
	default:
		return "TOP"
	}
}

func bulletPreset(kind analyzer.ListKind) string {
	if kind == analyzer.ListNumbered {
		return "NUMBERED_DIGIT_ALPHA_ROMAN"
	}
	return "BULLET_DISC_CIRCLE_SQUARE"
}

// canvasSize returns the page size in points for an orientation.
func canvasSize(o deck.Orientation) (w, h float64) {
	if o == deck.Portrait {
		return unit.PortraitWidth, unit.PortraitHeight
	}
	return unit.LandscapeWidth, unit.LandscapeHeight
}

// parseHexColor converts #RGB or #RRGGBB into the API's color struct.
func parseHexColor(hex string) (*slides.RgbColor, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q", hex)
	}
	return &slides.RgbColor{
		Red:   float64(v>>16&0xFF) / 255,
		Green: float64(v>>8&0xFF) / 255,
		Blue:  float64(v&0xFF) / 255,
	}, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
