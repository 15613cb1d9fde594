package env

import (
	"bufio"
	"os"
	"strings"
)

// Load reads KEY=VALUE files in order. Variables already present in the
// process environment win over file values, and earlier files win over
// later ones.
func Load(paths ...string) []string {
	pre := map[string]struct{}{}
	for _, e := range os.Environ() {
		if i := strings.IndexByte(e, '='); i > 0 {
			pre[e[:i]] = struct{}{}
		}
	}
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			k, v, ok := parseLine(sc.Text())
			if !ok {
				continue
			}
			if _, set := pre[k]; set {
				continue
			}
			if err := os.Setenv(k, v); err == nil {
				pre[k] = struct{}{}
				loaded = append(loaded, k)
			}
		}
		_ = f.Close()
	}
	return loaded
}

func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	k, v, found := strings.Cut(line, "=")
	k = strings.TrimSpace(k)
	if !found || k == "" {
		return "", "", false
	}
	v = strings.TrimSpace(v)
	if unq, ok := unquote(v); ok {
		return k, unq, true
	}
	if j := strings.Index(v, " #"); j >= 0 {
		v = strings.TrimSpace(v[:j])
	}
	return k, v, true
}

func unquote(v string) (string, bool) {
	if len(v) < 2 {
		return "", false
	}
	q := v[0]
	if (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1], true
	}
	return "", false
}
