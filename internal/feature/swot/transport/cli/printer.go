// Package cli はswotフィーチャーの分析結果を端末向けに出力します。
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"swot_backend/internal/feature/swot/domain/entity"
	"swot_backend/internal/feature/swot/parser"
)

// 出力形式
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
	// FormatMarkdown は Printer の描画モードに従ったMarkdownです。
	FormatMarkdown = "markdown"
)

// Formats は --output に指定できる値の一覧です。
var Formats = []string{FormatHuman, FormatJSON, FormatYAML, FormatTable, FormatMarkdown}

// Report はCLIが出力する分析結果です。
type Report struct {
	ID        string             `json:"id,omitempty" yaml:"id,omitempty"`
	Analysis  string             `json:"analysis" yaml:"analysis"`
	Sections  entity.Sections    `json:"sections" yaml:"sections"`
	KeyPoints entity.Sections    `json:"key_points" yaml:"key_points"`
	Usage     *entity.TokenUsage `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// NewReport はモデル呼び出しを伴う分析結果からReportを生成します。
func NewReport(a *entity.Analysis) Report {
	r := NewParseReport(a.Text, a.Sections)
	r.ID = a.ID
	usage := a.Usage
	r.Usage = &usage
	return r
}

// NewParseReport は既存テキストの分類結果からReportを生成します。トークン数は含みません。
func NewParseReport(text string, s entity.Sections) Report {
	return Report{
		Analysis:  text,
		Sections:  nonNil(s),
		KeyPoints: parser.KeyPoints(s, parser.KeyPointLimit),
	}
}

// nonNil は空のカテゴリを空配列にそろえます。
func nonNil(s entity.Sections) entity.Sections {
	return entity.Sections{
		Strengths:     orEmpty(s.Strengths),
		Weaknesses:    orEmpty(s.Weaknesses),
		Opportunities: orEmpty(s.Opportunities),
		Threats:       orEmpty(s.Threats),
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// Printer はReportを指定形式で書き出します。
type Printer struct {
	w     io.Writer
	width int
	mode  parser.Mode
}

// NewPrinter は幅 width（0以下なら80）で書き出すPrinterを生成します。
func NewPrinter(w io.Writer, width int) *Printer {
	if width <= 0 {
		width = 80
	}
	return &Printer{w: w, width: width}
}

// WithMode は FormatMarkdown で使う描画モードを設定します。
func (p *Printer) WithMode(m parser.Mode) *Printer {
	p.mode = m
	return p
}

// Print は format に従って r を出力します。
func (p *Printer) Print(r Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		_, err := io.WriteString(p.w, parser.Render(r.Analysis, parser.ModeTable))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(p.w, parser.Render(r.Analysis, p.mode))
		return err
	case FormatHuman, "":
		return p.printHuman(r)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func (p *Printer) printHuman(r Report) error {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	title := color.New(color.FgCyan, color.Bold)

	title.Fprintln(p.w, "SWOT Analysis")
	analysis, err := md.Render(r.Analysis)
	if err != nil {
		return fmt.Errorf("failed to render analysis: %w", err)
	}
	fmt.Fprint(p.w, analysis)

	title.Fprintln(p.w, "SWOT Analysis - Key Points")
	fmt.Fprintln(p.w, p.grid(r.KeyPoints))

	title.Fprintln(p.w, "SWOT Table")
	table, err := md.Render(parser.Table(r.Sections))
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprint(p.w, table)

	if r.Usage != nil {
		fmt.Fprintln(p.w, tokenPanel(*r.Usage))
	}
	return nil
}

// grid は4カテゴリを2x2の枠で並べます。
func (p *Printer) grid(s entity.Sections) string {
	colWidth := p.width/2 - 2
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(colWidth)
	heading := lipgloss.NewStyle().Bold(true)

	cells := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		var b strings.Builder
		b.WriteString(heading.Render(c.String()))
		items := s.Get(c)
		if len(items) == 0 {
			items = []string{parser.EmptyLabel(c)}
		}
		for _, item := range items {
			b.WriteString("\n- " + item)
		}
		cells = append(cells, box.Render(b.String()))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, cells[0], cells[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cells[2], cells[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// tokenPanel はトークン数の枠を返します。
func tokenPanel(u entity.TokenUsage) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)
	return style.Render(fmt.Sprintf(
		"Total Tokens: %d\nQuery Tokens: %d\nResponse Tokens: %d",
		u.Total, u.Query, u.Response,
	))
}
