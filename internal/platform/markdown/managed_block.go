package markdown

import "strings"

// BlockMarkers returns the HTML comment pair that fences a generated
// block named name.
func BlockMarkers(name string) (start, end string) {
	return "<!-- readlog:" + name + ":start -->", "<!-- readlog:" + name + ":end -->"
}

// ReplaceBlock swaps the generated block called name inside body for
// generated, leaving everything outside the markers untouched. A body
// without the block gets it appended.
func ReplaceBlock(body, name, generated string) string {
	startMarker, endMarker := BlockMarkers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(body, startMarker)
	if start >= 0 {
		if end := strings.Index(body[start:], endMarker); end >= 0 {
			end += start + len(endMarker)
			return body[:start] + block + body[end:]
		}
	}

	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
