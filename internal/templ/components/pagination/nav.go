package pagination

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	paging "github.com/DukeRupert/pagelinks/internal/pagination"
)

const (
	navClass      = "flex items-center justify-center gap-1 text-sm"
	linkClass     = "rounded-md px-3 py-1 text-gray-700 hover:bg-gray-100"
	currentClass  = "rounded-md px-3 py-1 bg-forest font-semibold text-white not-italic"
	disabledClass = "rounded-md px-3 py-1 text-gray-400 cursor-not-allowed"
	gapClass      = "px-2 text-gray-400"
)

// Nav renders the previous link, the page window and the next link.
// The current page is an <em>, gaps are an ellipsis, and a boundary link
// without a target is a disabled <span>. Nothing is rendered for hidden data.
func Nav(data Data, cfg Config) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Hidden {
			return nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, `<nav class="%s" role="navigation" aria-label="Pagination">`,
			templ.EscapeString(twmerge.Merge(navClass, cfg.Class)))

		writeBoundary(&b, data.Previous, "previous_page", label(cfg.PreviousLabel, "← Previous"), cfg)
		for _, l := range data.Links {
			writePage(&b, l, cfg)
		}
		writeBoundary(&b, data.Next, "next_page", label(cfg.NextLabel, "Next →"), cfg)

		b.WriteString(`</nav>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Summary renders the "Displaying items 21 - 40 of 95 in total" line.
func Summary(info paging.EntriesInfo, singular, plural string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		singular, plural := templ.EscapeString(singular), templ.EscapeString(plural)

		var text string
		switch {
		case info.Total == 0:
			text = fmt.Sprintf("No %s found", plural)
		case info.Empty():
			text = fmt.Sprintf("No %s on this page, <b>%d</b> in total", plural, info.Total)
		case info.Total == 1:
			text = fmt.Sprintf("Displaying <b>1</b> %s", singular)
		case info.SinglePage:
			text = fmt.Sprintf("Displaying <b>all %d</b> %s", info.Total, plural)
		default:
			text = fmt.Sprintf("Displaying %s <b>%d&nbsp;-&nbsp;%d</b> of <b>%d</b> in total",
				plural, info.First, info.Last, info.Total)
		}

		_, err := io.WriteString(w, `<p class="page_info text-sm text-gray-600">`+text+`</p>`)
		return err
	})
}

func writePage(b *strings.Builder, l paging.Link, cfg Config) {
	switch {
	case l.Token.IsGap():
		fmt.Fprintf(b, `<span class="gap %s">&hellip;</span>`, gapClass)
	case l.IsCurrent:
		fmt.Fprintf(b, `<em class="current %s" aria-current="page">%d</em>`,
			templ.EscapeString(twmerge.Merge(currentClass, cfg.LinkClass)), l.Page())
	case !l.HasURL:
		fmt.Fprintf(b, `<span class="%s">%d</span>`,
			templ.EscapeString(twmerge.Merge(linkClass, cfg.LinkClass)), l.Page())
	default:
		writeAnchor(b, l, twmerge.Merge(linkClass, cfg.LinkClass), strconv.Itoa(l.Page()), cfg)
	}
}

func writeBoundary(b *strings.Builder, l *paging.Link, kind, text string, cfg Config) {
	if l == nil || !l.HasURL {
		fmt.Fprintf(b, `<span class="%s disabled %s">%s</span>`, kind, disabledClass, templ.EscapeString(text))
		return
	}
	writeAnchor(b, *l, kind+" "+twmerge.Merge(linkClass, cfg.LinkClass), text, cfg)
}

func writeAnchor(b *strings.Builder, l paging.Link, class, text string, cfg Config) {
	href := templ.EscapeString(l.URL)
	fmt.Fprintf(b, `<a href="%s" class="%s"`, href, templ.EscapeString(class))
	if l.Rel != "" {
		fmt.Fprintf(b, ` rel="%s"`, templ.EscapeString(l.Rel))
	}
	if cfg.UseHtmx {
		fmt.Fprintf(b, ` hx-get="%s"`, href)
		if cfg.TargetID != "" {
			fmt.Fprintf(b, ` hx-target="#%s"`, templ.EscapeString(cfg.TargetID))
		}
		if cfg.PushURL {
			b.WriteString(` hx-push-url="true"`)
		}
	}
	fmt.Fprintf(b, `>%s</a>`, templ.EscapeString(text))
}

func label(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
