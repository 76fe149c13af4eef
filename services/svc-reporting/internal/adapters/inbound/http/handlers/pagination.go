package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
)

const (
	totalCountHeader = "X-Total-Count"
	linkHeader       = "Link"
)

// writePaginationHeaders sets X-Total-Count and an RFC 5988 Link header with
// next, prev, last and first relations, keeping every other query parameter.
func writePaginationHeaders[T any](w http.ResponseWriter, r *http.Request, page *model.Page[T]) {
	w.Header().Set(totalCountHeader, strconv.FormatUint(page.TotalElements, 10))

	lastPage := uint(0)
	if page.TotalPages > 0 {
		lastPage = page.TotalPages - 1
	}

	links := make([]string, 0, 4)

	if page.HasNext() {
		links = append(links, pageLink(r.URL, page.Page+1, page.Size, "next"))
	}

	if page.HasPrevious() {
		links = append(links, pageLink(r.URL, page.Page-1, page.Size, "prev"))
	}

	links = append(links,
		pageLink(r.URL, lastPage, page.Size, "last"),
		pageLink(r.URL, 0, page.Size, "first"),
	)

	w.Header().Set(linkHeader, strings.Join(links, ","))
}

func pageLink(base *url.URL, page, size uint, rel string) string {
	query := base.Query()
	query.Set(paramPage, strconv.FormatUint(uint64(page), 10))
	query.Set(paramSize, strconv.FormatUint(uint64(size), 10))

	target := url.URL{Path: base.Path, RawQuery: query.Encode()}

	return fmt.Sprintf("<%s>; rel=%q", target.String(), rel)
}
