// Package views renders the public HTML pages shown to card holders and kiosks.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

// Layout wraps every public page.
const Layout = "layouts/main"

//go:embed templates
var templateFS embed.FS

// New builds the template engine backed by the embedded templates. Dates are shown in loc.
func New(loc *time.Location) *html.Engine {
	if loc == nil {
		loc = time.Local
	}

	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("money", func(amount decimal.Decimal) string {
		return amount.StringFixed(2)
	})
	engine.AddFunc("date", func(t time.Time) string {
		return t.In(loc).Format("02 Jan 2006")
	})
	engine.AddFunc("datetime", func(t time.Time) string {
		return t.In(loc).Format("02 Jan 2006 15:04")
	})
	return engine
}
