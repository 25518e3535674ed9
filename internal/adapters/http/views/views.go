package views

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/914h/BabImmob-sub000/internal/core/domain"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

// Layout wraps every page
const Layout = "layouts/main"

// Page templates
const (
	PageLogin     = "pages/login"
	PageError     = "pages/error"
	PageTable     = "pages/table"
	PageForm      = "pages/form"
	PageListing   = "pages/listing"
	PageProperty  = "pages/property"
	PageDashboard = "pages/dashboard"
)

// NewEngine builds the Fiber view engine over the embedded templates.
// reload re-parses templates on every render (dev mode).
func NewEngine(reload bool) *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Reload(reload)
	engine.AddFunc("money", Money)
	engine.AddFunc("date", FormatDate)
	engine.AddFunc("label", Label)
	engine.AddFunc("badge", Badge)
	return engine
}

// Money formats an amount with a space every three digits: 1 250 000
func Money(d domain.Decimal) string {
	s := d.String()
	whole, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatDate renders a timestamp as a calendar date, or a dash when unset
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// Label turns an enum value such as "commercial" into "Commercial"
func Label(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case interface{ String() string }:
		s = x.String()
	default:
		s = toString(v)
	}
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Badge returns the css class used for a status value
func Badge(status any) string {
	switch toString(status) {
	case "available", "approved", "active", "confirmed":
		return "badge ok"
	case "pending":
		return "badge wait"
	case "rejected", "cancelled", "sold":
		return "badge ko"
	}
	return "badge"
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case domain.Role:
		return string(x)
	case domain.PropertyType:
		return string(x)
	case domain.PropertyStatus:
		return string(x)
	case domain.ContractType:
		return string(x)
	case domain.ContractStatus:
		return string(x)
	case domain.VisitStatus:
		return string(x)
	}
	return ""
}
