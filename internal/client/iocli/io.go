// Package iocli абстрагирует терминальный ввод-вывод CLI, чтобы команды можно было тестировать.
package iocli

//go:generate moq -out io_mock.go . IO

// IO терминал оператора: вывод отчетов, чтение строк и парольной фразы без эха
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
