// Package templates renders the HTML fragments returned to HTMX requests.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error banner with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert" data-code="%s"><p class="alert-message">%s</p>`,
			templ.EscapeString(code), templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p class="alert-action">%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<p class="alert-code">Code: %s</p></div>`, templ.EscapeString(code))
		return err
	})
}

// ImportResultBanner summarizes a commit and lists the rows that failed.
func ImportResultBanner(r *core.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "alert-success"
		if r.Failed > 0 {
			class = "alert-warning"
		}
		_, err := fmt.Fprintf(w,
			`<div class="alert %s" role="status"><p>Imported %d rows: %d created, %d updated, %d restored, %d failed.</p>`,
			class, r.TotalRows, r.Created, r.Updated, r.Restored, r.Failed)
		if err != nil {
			return err
		}
		if len(r.Errors) > 0 {
			if _, err := io.WriteString(w, `<ul class="import-errors">`); err != nil {
				return err
			}
			for _, e := range r.Errors {
				label := fmt.Sprintf("Row %d", e.Row)
				if e.SerialNumber != "" {
					label += " (" + e.SerialNumber + ")"
				}
				if _, err := fmt.Fprintf(w, `<li><strong>%s</strong>: %s</li>`,
					templ.EscapeString(label), templ.EscapeString(e.Error)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}
