package metrics

import "github.com/DukeRupert/pagelinks/internal/pagination"

// PaginationRendered records a rendered window and its previous/next links.
func PaginationRendered(links []pagination.Link, previous, next *pagination.Link) {
	PaginationWindowSize.Observe(float64(len(links)))

	for _, l := range links {
		if l.Token.IsGap() {
			PaginationLinksRendered.WithLabelValues("gap").Inc()
			continue
		}
		PaginationLinksRendered.WithLabelValues("page").Inc()
		if l.Err != nil {
			PaginationURLErrors.Inc()
		}
	}

	for kind, l := range map[string]*pagination.Link{"previous": previous, "next": next} {
		if l == nil {
			continue
		}
		PaginationLinksRendered.WithLabelValues(kind).Inc()
		if l.Err != nil {
			PaginationURLErrors.Inc()
		}
	}
}
