package main

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/danmuck/pngme/internal/config"
	"github.com/danmuck/pngme/internal/png"
	"github.com/danmuck/pngme/internal/png/chunk"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const previewLen = 32

type chunkView struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Length     uint32 `json:"length"`
	CRC        uint32 `json:"crc"`
	Critical   bool   `json:"critical"`
	Public     bool   `json:"public"`
	SafeToCopy bool   `json:"safe_to_copy"`
	Preview    string `json:"preview,omitempty"`
}

type pngView struct {
	Signature string      `json:"signature"`
	Bytes     int         `json:"bytes"`
	Chunks    []chunkView `json:"chunks"`
}

func newPNGView(p *png.PNG) pngView {
	v := pngView{
		Signature: fmt.Sprintf("% x", png.Signature[:]),
		Bytes:     p.WireLen(),
		Chunks:    make([]chunkView, 0, p.Len()),
	}
	for i, c := range p.Chunks() {
		v.Chunks = append(v.Chunks, chunkView{
			Index:      i,
			Type:       c.Type.String(),
			Length:     c.Length(),
			CRC:        c.CRC(),
			Critical:   c.Type.IsCritical(),
			Public:     c.Type.IsPublic(),
			SafeToCopy: c.Type.IsSafeToCopy(),
			Preview:    preview(c),
		})
	}
	return v
}

// preview shows the leading text of ancillary chunks; critical chunks carry
// image data and are left blank.
func preview(c chunk.Chunk) string {
	if c.Type.IsCritical() {
		return ""
	}
	s, err := c.DataString()
	if err != nil {
		return ""
	}
	if utf8.RuneCountInString(s) > previewLen {
		return string([]rune(s)[:previewLen]) + "..."
	}
	return s
}

func render(w io.Writer, format string, p *png.PNG) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newPNGView(p))
	case config.FormatText:
		_, err := io.WriteString(w, p.String())
		return err
	default:
		renderTable(w, newPNGView(p))
		return nil
	}
}

func renderTable(w io.Writer, v pngView) {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("PNG signature [%s], %d bytes", v.Signature, v.Bytes))
	t.AppendHeader(table.Row{"#", "Type", "Length", "CRC", "Critical", "Public", "Safe To Copy", "Preview"})
	for _, c := range v.Chunks {
		t.AppendRow(table.Row{c.Index, c.Type, c.Length, c.CRC, c.Critical, c.Public, c.SafeToCopy, c.Preview})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 7, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 8, AlignHeader: text.AlignCenter},
	})
	t.SetOutputMirror(w)
	t.Render()
}
