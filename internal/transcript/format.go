package transcript

import (
	"fmt"
	"strings"

	"github.com/dgallion1/tablets/internal/tablet"
)

// Format selects how a transcript is rendered.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// SupportedFormats lists the formats Render accepts.
var SupportedFormats = map[Format]bool{
	FormatMarkdown: true,
	FormatHTML:     true,
	FormatText:     true,
}

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "text", "txt", "plain":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Render reads t and converts the markdown transcript into format.
func (tr *Transcriptor) Render(t tablet.Tablet, format Format) (string, error) {
	if !SupportedFormats[format] {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	md, err := tr.Read(t)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatHTML:
		return ToHTML(md)
	case FormatText:
		return ToText(md)
	default:
		return md, nil
	}
}
