package blocks

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/nestview/pkg/layout"
	"github.com/matzehuels/nestview/pkg/model"
)

// Options configures block rendering.
type Options struct {
	Title       model.TitleModel
	LabelColors map[string]string

	// Padding surrounds the diagram on every side.
	Padding int
}

const (
	defaultFill   = "#ffffff"
	defaultStroke = "#333333"
	defaultText   = "#111111"
	cornerRadius  = 4
)

// RenderSVG draws blocks as an SVG document.
func RenderSVG(blocks []layout.Block, opts Options) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, blocks, opts)
	return buf.Bytes()
}

// WriteSVG writes the SVG document for blocks to w.
func WriteSVG(w io.Writer, blocks []layout.Block, opts Options) {
	bounds := layout.Bounds(blocks)
	pad := opts.Padding
	width := px(bounds.Width) + 2*pad
	height := px(bounds.Height) + 2*pad

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", pad, pad))
	for _, b := range blocks {
		drawBlock(canvas, b, opts)
	}
	canvas.Gend()
	canvas.End()
}

func drawBlock(canvas *svg.SVG, b layout.Block, opts Options) {
	decl := parseStyle(b.Style)

	fill := first(decl["fill"], decl["background-color"], opts.LabelColors[b.Label], defaultFill)
	stroke := first(decl["stroke"], decl["border-color"], defaultStroke)
	canvas.Roundrect(px(b.X), px(b.Y), px(b.Width), px(b.Height), cornerRadius, cornerRadius,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", fill, stroke),
		attr("data-path", b.Path),
		attr("data-label", b.Label),
	)

	font := opts.Title.Font
	textStyle := []string{
		"fill:" + first(decl["color"], defaultText),
		fmt.Sprintf("font-size:%gpx", font.Size),
	}
	if font.Family != "" {
		textStyle = append(textStyle, "font-family:"+font.Family)
	}
	if fw := first(decl["font-weight"], font.Weight); fw != "" {
		textStyle = append(textStyle, "font-weight:"+fw)
	}
	if fs := decl["font-style"]; fs != "" {
		textStyle = append(textStyle, "font-style:"+fs)
	}
	if td := decl["text-decoration"]; td != "" {
		textStyle = append(textStyle, "text-decoration:"+td)
	}

	x := px(b.X + opts.Title.Margin.Left)
	y := px(b.Y + opts.Title.Margin.Top + font.Size)
	canvas.Text(x, y, title(b), strings.Join(textStyle, ";"))
}

// title prefers the entity name and falls back to its ID.
func title(b layout.Block) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// parseStyle splits "prop: value;" declarations. Later declarations of the
// same property replace earlier ones.
func parseStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, d := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop != "" && value != "" {
			out[prop] = value
		}
	}
	return out
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func px(v float64) int { return int(math.Round(v)) }
