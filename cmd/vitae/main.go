package main

import (
	"os"
	"strings"

	"vitae-cli/internal/cli"
)

func isDocumentID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "doc-") && len(s) > len("doc-")
}

// rewriteDocumentShortcut turns `vitae [flags] <doc-id>` into `vitae [flags] documents show <doc-id>`.
// Cobra treats the first positional token as a subcommand, so argv is rewritten before parsing.
func rewriteDocumentShortcut(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Persistent flags that take a separate value; anything else starting with "-" is skipped alone.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "documents", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isDocumentID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isDocumentID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDocumentShortcut(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
