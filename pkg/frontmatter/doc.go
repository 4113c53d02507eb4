// Package frontmatter extracts YAML frontmatter from Markdown documents.
//
// Frontmatter is the block between a first line of "---" and the next line
// of "---" (or "..."). Both LF and CRLF line endings are accepted.
//
//	var meta map[string]any
//	body, err := frontmatter.MustParse(r, &meta)
//	if errors.Is(err, frontmatter.ErrMissingFrontmatter) {
//		// the document has no header to validate
//	}
package frontmatter
