package httpserver

import (
	"net/http"
	"time"

	"github.com/ilibrarian/librarian/internal/library"
	"github.com/ilibrarian/librarian/internal/platform/httpx"
	"github.com/ilibrarian/librarian/internal/platform/pagination"
)

type windowPayload struct {
	Page           int  `json:"page"`
	PageSize       int  `json:"page_size"`
	TotalCount     int  `json:"total_count"`
	LastPage       int  `json:"last_page"`
	FirstItemIndex int  `json:"first_item_index"`
	LastItemIndex  int  `json:"last_item_index"`
	IsFirstPage    bool `json:"is_first_page"`
	IsLastPage     bool `json:"is_last_page"`
	HasPrev        bool `json:"has_prev"`
	HasNext        bool `json:"has_next"`
}

type linksPayload struct {
	First *string `json:"first"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
	Last  *string `json:"last"`
}

type authorPayload struct {
	ID        int    `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name,omitempty"`
}

type itemPayload struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Authors  []authorPayload `json:"authors"`
	Tags     []string        `json:"tags"`
	FileSize int64           `json:"file_size"`
	AddedAt  time.Time       `json:"added_at"`
}

type itemsResponse struct {
	Window windowPayload `json:"window"`
	Links  linksPayload  `json:"links"`
	Items  []itemPayload `json:"items"`
}

// apiItems serves the same listing as /items as JSON. Disabled navigation links are null.
func (s *Server) apiItems(w http.ResponseWriter, r *http.Request) {
	l, err := s.loadListing(r.Context(), r)
	if err != nil {
		s.failJSON(w, r, err)
		return
	}
	links := pagination.Links(*r.URL, l.window)
	resp := itemsResponse{
		Window: windowPayload(l.window),
		Links: linksPayload{
			First: linkHref(links.First),
			Prev:  linkHref(links.Prev),
			Next:  linkHref(links.Next),
			Last:  linkHref(links.Last),
		},
		Items: make([]itemPayload, 0, len(l.items)),
	}
	for _, item := range l.items {
		resp.Items = append(resp.Items, toItemPayload(item))
	}
	s.metrics.rendered("api_items")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func linkHref(l pagination.NavLink) *string {
	if l.Disabled {
		return nil
	}
	href := l.Href
	return &href
}

func toItemPayload(item library.Item) itemPayload {
	authors := make([]authorPayload, 0, len(item.Authors))
	for _, a := range item.Authors {
		authors = append(authors, authorPayload{ID: a.ID, LastName: a.LastName, FirstName: a.FirstName})
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return itemPayload{
		ID:       item.ID,
		Title:    item.Title,
		Authors:  authors,
		Tags:     tags,
		FileSize: item.FileSize,
		AddedAt:  item.AddedAt,
	}
}
