// Package batch implements the exporter's batch-descriptor grammar:
// single-path tasks and BEGIN_PROFILE/END blocks naming a foreign
// machine's well-known folders. Grounded on go-git's plumbing/format/
// config decoder's line-oriented, directive-dispatch parsing style.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/joaohenggeler/web-cache-exporter-sub001/internal/keypaths"
)

// Format identifies which single-path task directive named a task.
type Format int

const (
	Walk Format = iota
	WinINet
	Mozilla
	Flash
	Shockwave
	Java
	Unity
)

func (f Format) String() string {
	switch f {
	case Walk:
		return "WALK"
	case WinINet:
		return "WININET"
	case Mozilla:
		return "MOZILLA"
	case Flash:
		return "FLASH"
	case Shockwave:
		return "SHOCKWAVE"
	case Java:
		return "JAVA"
	case Unity:
		return "UNITY"
	default:
		return "UNKNOWN"
	}
}

// Task is a single-path task: one format, one cache root.
type Task struct {
	Format Format
	Path   string
}

// Error reports a malformed batch descriptor, by line number.
type Error struct {
	Line int
	msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("batch: line %d: %s", e.Line, e.msg) }

func newError(line int, format string, args ...any) *Error {
	return &Error{Line: line, msg: fmt.Sprintf(format, args...)}
}

var singlePathDirectives = map[string]Format{
	"WALK":      Walk,
	"WININET":   WinINet,
	"MOZILLA":   Mozilla,
	"FLASH":     Flash,
	"SHOCKWAVE": Shockwave,
	"JAVA":      Java,
	"UNITY":     Unity,
}

// Parse reads a batch descriptor and returns the single-path tasks and
// key-paths profiles it names, in declaration order.
func Parse(r io.Reader) ([]Task, []keypaths.Profile, error) {
	scanner := bufio.NewScanner(r)

	var tasks []Task
	var profiles []keypaths.Profile
	var current *keypaths.Profile
	seen := map[string]bool{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		directive, rest := splitDirective(line)

		if fmt, ok := singlePathDirectives[directive]; ok {
			if current != nil {
				return nil, nil, newError(lineNo, "%s inside an open BEGIN_PROFILE block", directive)
			}
			if rest == "" {
				return nil, nil, newError(lineNo, "%s requires a path argument", directive)
			}
			tasks = append(tasks, Task{Format: fmt, Path: rest})
			continue
		}

		switch directive {
		case "BEGIN_PROFILE":
			if current != nil {
				return nil, nil, newError(lineNo, "nested BEGIN_PROFILE block")
			}
			if rest == "" {
				return nil, nil, newError(lineNo, "BEGIN_PROFILE requires a name")
			}
			current = &keypaths.Profile{Name: rest}
			seen = map[string]bool{}

		case "DRIVE", "WINDOWS", "TEMPORARY", "USER", "APPDATA", "LOCAL_APPDATA", "LOCAL_LOW_APPDATA", "INTERNET_CACHE":
			if current == nil {
				return nil, nil, newError(lineNo, "%s outside a BEGIN_PROFILE block", directive)
			}
			if err := setProfilePath(current, directive, rest); err != nil {
				return nil, nil, newError(lineNo, "%s", err)
			}
			seen[directive] = true

		case "END":
			if current == nil {
				return nil, nil, newError(lineNo, "END without a matching BEGIN_PROFILE")
			}
			if missing := missingDirectives(seen); len(missing) > 0 {
				return nil, nil, newError(lineNo, "BEGIN_PROFILE %q missing required directives: %s", current.Name, strings.Join(missing, ", "))
			}
			if err := current.Validate(); err != nil {
				return nil, nil, newError(lineNo, "%s", err)
			}
			profiles = append(profiles, *current)
			current = nil

		default:
			return nil, nil, newError(lineNo, "unrecognized directive %q", directive)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if current != nil {
		return nil, nil, newError(lineNo, "unterminated BEGIN_PROFILE %q at end of file", current.Name)
	}

	return tasks, profiles, nil
}

var requiredProfileDirectives = []string{
	"DRIVE", "WINDOWS", "TEMPORARY", "USER", "APPDATA", "LOCAL_APPDATA", "LOCAL_LOW_APPDATA", "INTERNET_CACHE",
}

func missingDirectives(seen map[string]bool) []string {
	var missing []string
	for _, d := range requiredProfileDirectives {
		if !seen[d] {
			missing = append(missing, d)
		}
	}
	return missing
}

func setProfilePath(p *keypaths.Profile, directive, value string) error {
	path := keypaths.SetPath(value)
	if value == keypaths.None {
		path = keypaths.Path{}
	}
	switch directive {
	case "DRIVE":
		p.Drive = path
	case "WINDOWS":
		p.Windows = path
	case "TEMPORARY":
		p.Temporary = path
	case "USER":
		p.User = path
	case "APPDATA":
		p.AppData = path
	case "LOCAL_APPDATA":
		p.LocalAppData = path
	case "LOCAL_LOW_APPDATA":
		p.LocalLowAppData = path
	case "INTERNET_CACHE":
		p.WinINetCache = path
	}
	return nil
}

func splitDirective(line string) (directive, rest string) {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
