package watch

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

var (
	// ErrInvalidXPath flags an XPath expression that does not parse.
	ErrInvalidXPath = errors.New("invalid XPath expression")
	// ErrNoElementFound flags a selector or XPath that matched no element.
	ErrNoElementFound = errors.New("no element found matching selector")
)

// HTMLParser extracts a version from release pages. It takes the text of the
// first element matching a CSS selector (or an XPath expression when no
// selector is set) and optionally narrows it with a regex.
type HTMLParser struct {
	Selector string
	XPath    string
	Regex    string

	compiled *regexp.Regexp
}

// NewHTMLParser builds an HTMLParser, compiling the optional regex up front.
func NewHTMLParser(selector, xpath, regex string) (*HTMLParser, error) {
	if selector == "" && xpath == "" {
		return nil, ErrMissingSelector
	}

	parser := &HTMLParser{Selector: selector, XPath: xpath, Regex: regex}
	if regex != "" {
		re, err := regexp.Compile(regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
		}
		parser.compiled = re
	}
	return parser, nil
}

func (p *HTMLParser) Parse(content []byte) (string, error) {
	text, err := p.extract(content)
	if err != nil {
		return "", err
	}

	if p.Regex != "" {
		if text, err = p.narrow(text); err != nil {
			return "", err
		}
	}

	version := strings.TrimSpace(text)
	if version == "" {
		return "", ErrNoVersionFound
	}
	return version, nil
}

func (p *HTMLParser) extract(content []byte) (string, error) {
	switch {
	case p.Selector != "":
		return firstByCSS(content, p.Selector)
	case p.XPath != "":
		return firstByXPath(content, p.XPath)
	default:
		return "", ErrMissingSelector
	}
}

// firstByCSS returns the text of the first element matching a CSS selector.
func firstByCSS(content []byte, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoElementFound, selector)
	}
	return sel.First().Text(), nil
}

// firstByXPath returns the text of the first node matching an XPath
// expression.
func firstByXPath(content []byte, expr string) (string, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidXPath, err)
	}
	if len(nodes) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoElementFound, expr)
	}
	return htmlquery.InnerText(nodes[0]), nil
}

// narrow trims the element text down to the version, preferring the first
// capture group and falling back to the full match for patterns without one.
func (p *HTMLParser) narrow(text string) (string, error) {
	if p.compiled == nil {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRegexPattern, err)
		}
		p.compiled = re
	}

	matches := p.compiled.FindStringSubmatch(text)
	switch {
	case matches == nil:
		return "", fmt.Errorf("%w: pattern %q did not match text", ErrRegexNoMatch, p.Regex)
	case len(matches) > 1 && matches[1] != "":
		return matches[1], nil
	case matches[0] != "":
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: pattern matched empty string", ErrRegexNoMatch)
	}
}
