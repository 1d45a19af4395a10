package main

import (
	"os"
	"strings"

	"mandala-cli/internal/cli"
)

// isNodePath reports whether s looks like a dotted node path ("0", "3.5", "0.2.7").
func isNodePath(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if len(part) != 1 || part[0] < '0' || part[0] > '7' {
			return false
		}
	}
	return true
}

func rewriteDirectPathArgs(argv []string) []string {
	// Convenience: `mandala 3.5` works like `mandala show --path 3.5`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`mandala --dir ... 3.5`), so we look for the first
	// positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "show", "--path")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isNodePath(argv[i+1]) {
				// "show" must come before "--" for cobra to route it.
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i]...)
				out = append(out, "show", "--path")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isNodePath(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectPathArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
