package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes that may reference files next to the résumé source.
// Media and script elements are left alone: PDFs do not play media and
// scripts never load from the source directory.
var assetAttrs = map[atom.Atom]string{
	atom.Img:  "src",
	atom.A:    "href",
	atom.Link: "href",
}

// RewriteRelativePaths resolves relative img, a and link references against
// baseDir and turns them into file:// URLs. The browser loads the PDF input
// from a temp directory, so a photo referenced as "photo.jpg" would
// otherwise be missing. References escaping baseDir are kept verbatim.
// An empty baseDir returns the markup unchanged.
func RewriteRelativePaths(markup, baseDir string) (string, error) {
	if baseDir == "" {
		return markup, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	doc, fragment, err := parseMarkup(markup)
	if err != nil {
		return "", err
	}

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if key, ok := assetAttrs[n.DataAtom]; ok {
				rewriteAttr(n, key, root)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return renderMarkup(doc, fragment)
}

// parseMarkup parses full documents as such and anything else as a body
// fragment, so fragments are not wrapped in <html><body> on output.
func parseMarkup(markup string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(markup))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(markup))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderMarkup(doc *html.Node, fragment bool) (string, error) {
	var b strings.Builder
	if !fragment {
		if err := html.Render(&b, doc); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func rewriteAttr(n *html.Node, key, root string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(attr.Val))
		if !isWithin(abs, root) {
			continue
		}
		n.Attr[i].Val = fileURL(abs)
	}
}

// isRelativeRef reports whether ref is a relative filesystem reference.
func isRelativeRef(ref string) bool {
	switch {
	case ref == "", strings.HasPrefix(ref, "#"), strings.HasPrefix(ref, "//"):
		return false
	case filepath.IsAbs(ref), strings.HasPrefix(ref, "/"):
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		// Covers http, https, mailto, tel, data and file. A Windows drive
		// letter parses as a one-letter scheme and is already absolute.
		return false
	}
	return true
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func fileURL(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}
