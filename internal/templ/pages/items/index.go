package items

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DukeRupert/pagelinks/internal/templ/components/pagination"
)

// ListTargetID is the element htmx swaps when paging through the list.
const ListTargetID = "item-list"

const (
	entrySingular = "item"
	entryPlural   = "items"
)

// IndexPage renders the full items page.
func IndexPage(data ListPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := cases.Title(language.English).String(entryPlural)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script></head>`+
			`<body class="bg-gray-50"><main class="mx-auto max-w-3xl p-6"><h1 class="mb-4 text-2xl font-semibold">%s</h1>`+
			`<div id="%s">`, title, title, ListTargetID); err != nil {
			return err
		}
		if err := List(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></main></body></html>`)
		return err
	})
}

// List renders the item list with its pagination controls. It is also the
// htmx partial swapped into ListTargetID.
func List(data ListPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Error != "" {
			_, err := fmt.Fprintf(w, `<p class="rounded-md bg-red-100 p-3 text-red-800">%s</p>`, templ.EscapeString(data.Error))
			return err
		}

		if err := pagination.Summary(data.Pagination.Info, entrySingular, entryPlural).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<ul class="my-4 divide-y divide-gray-200">`); err != nil {
			return err
		}
		for _, item := range data.Items {
			if _, err := fmt.Fprintf(w, `<li class="py-3" id="item-%s"><p class="font-medium">%s</p><p class="text-xs text-gray-500">%s</p></li>`,
				templ.EscapeString(item.ID), templ.EscapeString(item.Title), templ.EscapeString(item.CreatedAt)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul>`); err != nil {
			return err
		}

		return pagination.Nav(data.Pagination, data.PaginationConfig).Render(ctx, w)
	})
}
