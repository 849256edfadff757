package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/motoquote/motoquote/internal/quotations"
)

//go:embed templates/quotation.html
var templates embed.FS

// inrPrinter groups amounts in the Indian numbering system (1,00,000).
var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

func formatINR(v float64) string {
	return inrPrinter.Sprintf("₹%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// Renderer builds the quotation document: template to HTML, HTML to PDF via
// Gotenberg, PDF to the document store.
type Renderer struct {
	client *Client
	store  *Store
	tpl    *template.Template
}

// NewRenderer parses the embedded quotation template.
func NewRenderer(client *Client, store *Store) (*Renderer, error) {
	funcMap := template.FuncMap{
		"inr": formatINR,
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2 January 2006")
		},
	}
	tpl, err := template.New("quotation.html").Funcs(funcMap).ParseFS(templates, "templates/quotation.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse quotation template: %w", err)
	}
	return &Renderer{client: client, store: store, tpl: tpl}, nil
}

// BuildHTML executes the quotation template over a snapshot.
func (r *Renderer) BuildHTML(s quotations.Snapshot) (string, error) {
	buf := &bytes.Buffer{}
	if err := r.tpl.ExecuteTemplate(buf, "quotation.html", s); err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}
	return buf.String(), nil
}

// Render produces the PDF for a snapshot and returns its public URL.
func (r *Renderer) Render(ctx context.Context, s quotations.Snapshot) (string, error) {
	html, err := r.BuildHTML(s)
	if err != nil {
		return "", err
	}
	pdf, err := r.client.RenderHTML(ctx, html)
	if err != nil {
		return "", err
	}
	return r.store.Save(s.Number, pdf)
}
