package views

import "net/http"

// ErrorView renders a failed request.
type ErrorView struct {
	Layout  Layout
	Status  int
	Heading string
	Body    string
	Detail  string
}

// BuildErrorView picks the message for status. detail is shown verbatim and must
// not contain internal information.
func BuildErrorView(env Env, status int, detail string) ErrorView {
	prefix := "error.internal"
	switch {
	case status == http.StatusNotFound:
		prefix = "error.not_found"
	case status >= 400 && status < 500:
		prefix = "error.bad_request"
	}
	heading := env.t(prefix + ".title")
	return ErrorView{
		Layout:  NewLayout(env, heading),
		Status:  status,
		Heading: heading,
		Body:    env.t(prefix + ".body"),
		Detail:  detail,
	}
}
