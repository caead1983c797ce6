/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"whiteboard/internal/editor"
	"whiteboard/internal/geom"
	"whiteboard/internal/scene"
)

// PDFOptions controls the vector snapshot.
//
// Coordinates:
// - One screen pixel maps to one point.
// - Page origin is top-left, matching the raster output.
type PDFOptions struct {
	Title  string
	Author string
}

// RenderPDF writes f as a single-page PDF the size of the frame.
func RenderPDF(w io.Writer, f editor.Frame, opt PDFOptions) error {
	pw, ph := frameSize(f)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(pw), Ht: float64(ph)},
	})
	title := opt.Title
	if title == "" {
		title = "Whiteboard snapshot"
	}
	author := opt.Author
	if author == "" {
		author = "whiteboard"
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor(author, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, c := range Compile(f) {
		switch c.Op {
		case "clear":
			setFillColor(pdf, c.Fill)
			pdf.Rect(0, 0, float64(pw), float64(ph), "F")
		case "path":
			drawPDFPath(pdf, c)
		case "text":
			at := c.matrix.Apply(geom.P(c.X, c.Y))
			setTextColor(pdf, c.Fill)
			pdf.SetFont("Helvetica", "", c.FontSize)
			// Text takes the baseline; labels are positioned by their top edge
			pdf.Text(at.X, at.Y+c.FontSize*0.8, c.Text)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDFPath(pdf *gofpdf.Fpdf, c DrawCommand) {
	style := ""
	if c.Fill != "" {
		style += "F"
		setFillColor(pdf, c.Fill)
	}
	if c.Stroke != "" && c.StrokeWidth > 0 {
		style += "D"
		setDrawColor(pdf, c.Stroke)
		pdf.SetLineWidth(c.PixelWidth())
		pdf.SetDashPattern(scaledDash(c), 0)
	}
	if style == "" {
		return
	}
	if c.Opacity > 0 && c.Opacity < 1 {
		pdf.SetAlpha(c.Opacity, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}
	p := c.geometry.Transform(c.matrix)
	for _, cmd := range p.Cmds {
		d := cmd.Data
		switch cmd.Op {
		case geom.MoveTo:
			pdf.MoveTo(d[0], d[1])
		case geom.LineTo:
			pdf.LineTo(d[0], d[1])
		case geom.QuadTo:
			pdf.CurveTo(d[0], d[1], d[2], d[3])
		case geom.CubicTo:
			pdf.CurveBezierCubicTo(d[0], d[1], d[2], d[3], d[4], d[5])
		case geom.Close:
			pdf.ClosePath()
		}
	}
	pdf.DrawPath(style)
	pdf.SetDashPattern([]float64{}, 0)
}

func rgb(hex string) (int, int, int) {
	c, err := scene.ParseHex(hex)
	if err != nil {
		return 0, 0, 0
	}
	return int(c.R), int(c.G), int(c.B)
}

func setDrawColor(pdf *gofpdf.Fpdf, hex string) { pdf.SetDrawColor(rgb(hex)) }
func setFillColor(pdf *gofpdf.Fpdf, hex string) { pdf.SetFillColor(rgb(hex)) }
func setTextColor(pdf *gofpdf.Fpdf, hex string) { pdf.SetTextColor(rgb(hex)) }
