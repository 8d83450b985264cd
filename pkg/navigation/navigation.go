package navigation

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
)

const brandLabel = "AI Forum"

// PartialHeader marks requests issued by in-page navigation. Servers answer
// them with page content only, without the surrounding layout.
const PartialHeader = "X-Nav-Request"

// Item represents a navigation link that can be rendered in shared layouts.
type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var links = [...]Item{
	{Label: "Home", Path: "/"},
	{Label: "Login", Path: "/login"},
	{Label: "Register", Path: "/register"},
	{Label: "Dashboard", Path: "/dashboard"},
}

var (
	ErrNotLink     = errors.New("navigation: node is not a link")
	ErrNoNavigator = errors.New("navigation: navigator is required")
)

// Navigator performs the transition to a path when a link is activated.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// Brand returns the label shown at the start of the navigation bar.
func Brand() string {
	return brandLabel
}

// Links returns the navigation entries in display order. The returned slice
// is a copy and may be modified by the caller.
func Links() []Item {
	items := make([]Item, len(links))
	copy(items, links[:])
	return items
}

// Navbar builds the render tree of the navigation bar: a container holding
// the brand element followed by the link group.
func Navbar() *Node {
	group := Container("navbar-links")
	for _, item := range links {
		group.Append(Link(item.Label, item.Path))
	}

	return Container("navbar",
		Container("navbar-logo", Text(brandLabel)),
		group,
	)
}

// Activate asks nav to transition to the path of link. Each call results in
// exactly one Navigate call.
func Activate(ctx context.Context, nav Navigator, link *Node) error {
	if link == nil || link.Kind != KindLink {
		return ErrNotLink
	}
	if nav == nil {
		return ErrNoNavigator
	}
	return nav.Navigate(ctx, link.Path)
}

var navbarTemplate = template.Must(template.New("navbar").Parse(
	`{{define "node"}}` +
		`{{if eq .Tag "nav"}}<nav class="{{.Class}}">{{range .Children}}{{template "node" .}}{{end}}</nav>` +
		`{{else if eq .Tag "div"}}<div class="{{.Class}}">{{range .Children}}{{template "node" .}}{{end}}</div>` +
		`{{else if eq .Tag "a"}}<a href="{{.Path}}" data-nav-link>{{.Text}}</a>` +
		`{{else}}{{.Text}}{{end}}` +
		`{{end}}` +
		`{{template "node" .}}`,
))

// Render writes the tree as HTML. The outermost container is emitted as a
// <nav> element and nested containers as <div> elements.
func (n *Node) Render(w io.Writer) error {
	if n == nil {
		return nil
	}
	return navbarTemplate.Execute(w, n.view(true))
}

// HTML renders the tree for inclusion in a layout template.
func (n *Node) HTML() template.HTML {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
