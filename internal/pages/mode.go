package pages

import "strings"

// Mode is the kind of page a request path asks for.
type Mode string

const (
	ModeList   Mode = "list"
	ModeDetail Mode = "detail"
)

// DetectMode returns ModeDetail when path names the detail page and
// ModeList for anything else.
func DetectMode(path, detailPage string) Mode {
	if detailPage != "" && strings.Contains(path, detailPage) {
		return ModeDetail
	}
	return ModeList
}

// origin maps the hidden "from" form field back to a Mode.
func origin(from string) Mode {
	if from == string(ModeDetail) {
		return ModeDetail
	}
	return ModeList
}
