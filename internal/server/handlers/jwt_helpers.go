package handlers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer значение iss в токенах устройств
const TokenIssuer = "fieldsync"

// DeviceClaims представляет JWT claims токена устройства
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

// GenerateDeviceToken создает bearer token для устройства
func GenerateDeviceToken(cfg JWTConfig, deviceID string) (string, time.Time, error) {
	if deviceID == "" {
		return "", time.Time{}, fmt.Errorf("device id cannot be empty")
	}

	now := time.Now()
	expiresAt := now.Add(cfg.TokenTTL)

	claims := DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   deviceID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateDeviceToken валидирует и парсит токен устройства
func ValidateDeviceToken(cfg JWTConfig, tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(TokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*DeviceClaims); ok && token.Valid && claims.DeviceID != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
