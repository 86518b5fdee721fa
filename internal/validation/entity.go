package validation

import (
	"fmt"
	"regexp"
)

// EntityTypePattern определяет допустимый формат типа сущности
// Латинские буквы в нижнем регистре, цифры, '_' и '-', начинается с буквы
// Тип попадает в путь REST запроса, поэтому набор символов ограничен
var EntityTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// EntityIDPattern определяет допустимый формат идентификатора сущности
var EntityIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

const (
	// MinPassphraseLen минимальная длина парольной фразы для шифрования очереди
	MinPassphraseLen = 12
)

// ValidateEntityType проверяет тип сущности
func ValidateEntityType(entityType string) error {
	if entityType == "" {
		return fmt.Errorf("entity type cannot be empty")
	}

	if !EntityTypePattern.MatchString(entityType) {
		return fmt.Errorf("entity type %q must start with a lowercase letter and contain only a-z, 0-9, '_' or '-' (max 64)", entityType)
	}

	return nil
}

// ValidateEntityID проверяет идентификатор сущности
func ValidateEntityID(entityID string) error {
	if entityID == "" {
		return fmt.Errorf("entity id cannot be empty")
	}

	if !EntityIDPattern.MatchString(entityID) {
		return fmt.Errorf("entity id %q may contain only letters, digits, '.', '_', ':' or '-' (max 128)", entityID)
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к парольной фразе
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
