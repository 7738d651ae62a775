package pipeline

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FigureClass is added to images sized through a "size:WxH" title.
const FigureClass = "figure"

// figureSizePattern matches image titles like "size:6x4" or "size:5.5x3.25"
// (inches).
var figureSizePattern = regexp.MustCompile(`^size:(\d{1,2}(?:\.\d{1,3})?)x(\d{1,2}(?:\.\d{1,3})?)$`)

// RewriteResources prepares the document for rendering from a temp file:
//   - relative img[src] and a[href] values become file:// URLs under
//     sourceDir; paths escaping sourceDir are left untouched;
//   - images titled "size:WxH" get an inch width/height style and the
//     figure class, and lose the title.
//
// URLs, anchors and absolute paths are never rewritten. With an empty
// sourceDir only figure sizing is applied.
func RewriteResources(htmlContent, sourceDir string) (string, error) {
	absSourceDir := ""
	if sourceDir != "" {
		abs, err := filepath.Abs(sourceDir)
		if err != nil {
			return "", err
		}
		absSourceDir = abs
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absSourceDir)
	return renderHTML(doc, isFragment)
}

// parseHTML parses full documents as-is and fragments in a body context.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree. Fragments render their children only so no
// <html><body> wrapper is added.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			applyFigureSize(n)
			if sourceDir != "" {
				rewriteAttr(n, "src", sourceDir)
			}
		case atom.A:
			if sourceDir != "" {
				rewriteAttr(n, "href", sourceDir)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir)
	}
}

func rewriteAttr(n *html.Node, attrName, sourceDir string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}

		rel := attr.Val
		if unescaped, err := url.PathUnescape(rel); err == nil {
			rel = unescaped
		}

		absPath := filepath.Join(sourceDir, filepath.FromSlash(rel))
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// applyFigureSize turns a "size:WxH" title into inline dimensions.
func applyFigureSize(n *html.Node) {
	titleIdx := -1
	var width, height float64
	for i, attr := range n.Attr {
		if attr.Key != "title" {
			continue
		}
		m := figureSizePattern.FindStringSubmatch(strings.TrimSpace(attr.Val))
		if m == nil {
			return
		}
		width, _ = strconv.ParseFloat(m[1], 64)
		height, _ = strconv.ParseFloat(m[2], 64)
		if width <= 0 || height <= 0 {
			return
		}
		titleIdx = i
		break
	}
	if titleIdx == -1 {
		return
	}

	n.Attr = append(n.Attr[:titleIdx], n.Attr[titleIdx+1:]...)
	setAttr(n, "style", fmt.Sprintf("width:%sin;height:%sin", formatInches(width), formatInches(height)))
	addClass(n, FigureClass)
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return
			}
		}
		n.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// isRelativePath reports whether path is a local relative reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://", "data:", "mailto:"} {
		if strings.HasPrefix(strings.ToLower(path), scheme) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks absPath is dir or below it.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
