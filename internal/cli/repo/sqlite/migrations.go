package sqlite

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Встроенные SQL-миграции клиента. Все скрипты идемпотентны (IF NOT EXISTS)
// и применяются по порядку имён при каждом Migrate.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationScripts возвращает содержимое миграций, отсортированных по имени файла.
func migrationScripts() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	scripts := make([]string, 0, len(names))
	for _, n := range names {
		b, err := migrationsFS.ReadFile(n)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", n, err)
		}
		scripts = append(scripts, string(b))
	}
	return scripts, nil
}
