package commands

import (
	"bytes"
	"strings"
	"testing"

	"Portal/internal/cli/bootstrap"
	"Portal/internal/config"
)

// newTestApp собирает контекст клиента поверх in-memory хранилища.
// Уведомления (stderr) попадают в возвращаемый буфер.
func newTestApp(t *testing.T, baseURL string) (*bootstrap.App, *bytes.Buffer) {
	t.Helper()
	var errOut bytes.Buffer
	app, err := bootstrap.New(&config.Config{
		APIBaseURL:     baseURL,
		SessionBackend: config.BackendMemory,
		StateDir:       t.TempDir(),
		LogLevel:       "error",
	}, &errOut)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, &errOut
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// withStdin подменяет In и readPassword на чтение из строки
func withStdin(t *testing.T, input string) {
	t.Helper()
	oldIn, oldPw := In, readPassword
	In = strings.NewReader(input)
	readPassword = readLine
	t.Cleanup(func() { In, readPassword = oldIn, oldPw })
}
