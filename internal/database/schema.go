package database

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaScript returns every embedded up-migration concatenated in version order
func SchemaScript() (string, error) {
	return loadSchemaScript(migrationsFS, "migrations")
}

func loadSchemaScript(fsys fs.FS, dir string) (string, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to open schema source: %w", err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		return "", fmt.Errorf("no schema migrations found: %w", err)
	}

	var script strings.Builder
	for {
		if err := appendUp(src, version, &script); err != nil {
			return "", err
		}

		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read next migration after %d: %w", version, err)
		}
		version = next
	}
	return script.String(), nil
}

func appendUp(src source.Driver, version uint, script *strings.Builder) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read migration %d (%s): %w", version, identifier, err)
	}
	script.Write(body)
	script.WriteString("\n;\n")
	return nil
}

// SplitStatements strips -- and /* */ comments and splits a script on
// semicolons that sit outside quoted text.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      rune
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if quote != 0 {
			current.WriteRune(c)
			if c == quote {
				// A doubled quote is an escaped quote inside the literal
				if i+1 < len(runes) && runes[i+1] == quote {
					current.WriteRune(runes[i+1])
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			current.WriteRune(c)
		case c == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/') {
				i++
			}
			i++ // skip the closing slash
			current.WriteRune(' ')
		case c == ';':
			flush()
		default:
			current.WriteRune(c)
		}
	}
	flush()

	return statements
}
