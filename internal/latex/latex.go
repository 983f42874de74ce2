// Package latex provides lightweight structural checks for LaTeX documents
// before they are sent to the compilation service.
package latex

import (
	"fmt"
	"strings"
)

// CheckError describes why a document failed the structural check.
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("latex check failed: %s", e.Message)
}

// CheckDocument runs cheap structural sanity checks on LaTeX source: a
// document environment must be present and braces must balance. It cannot
// prove the document compiles; it exists to reject obviously broken
// tailoring output before paying for a remote compile.
func CheckDocument(source string) error {
	if strings.TrimSpace(source) == "" {
		return &CheckError{Message: "document is empty"}
	}
	if !strings.Contains(source, `\begin{document}`) {
		return &CheckError{Message: `missing \begin{document}`}
	}
	if !strings.Contains(source, `\end{document}`) {
		return &CheckError{Message: `missing \end{document}`}
	}

	depth := 0
	escaped := false
	for _, r := range source {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return &CheckError{Message: "unbalanced braces: unexpected '}'"}
			}
		}
	}
	if depth != 0 {
		return &CheckError{Message: fmt.Sprintf("unbalanced braces: %d unclosed", depth)}
	}
	return nil
}
