package httpx

import (
	"net/url"
	"strings"

	"github.com/target/campus-portal/internal/domain/model"
)

// Query parameters understood by feature-page listings.
const (
	queryParamSearch = "q"
	queryParamFilter = "filter"
)

// ParseListOptions reads a listing's search text and JMESPath filter from
// the query string, trimming surrounding whitespace from both.
func ParseListOptions(q url.Values) model.ListOptions {
	return model.ListOptions{
		Query:  strings.TrimSpace(q.Get(queryParamSearch)),
		Filter: strings.TrimSpace(q.Get(queryParamFilter)),
	}
}
