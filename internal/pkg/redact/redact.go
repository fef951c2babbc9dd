// redact — маскирование чувствительных значений перед записью в логи.
package redact

import "strings"

// Email маскирует локальную часть адреса, сохраняя домен:
// "foobar@example.com" -> "fo***@example.com". Для коротких локальных
// частей (<= 2 рун) и невалидных адресов возвращает "***".
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	r := []rune(local)
	if len(r) > 2 {
		local = string(r[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// IP оставляет только первый октет IPv4-адреса: "203.0.113.7" -> "203.***".
// Для прочих форм (IPv6, пустая строка) возвращает "***".
func IP(s string) string {
	parts := strings.Split(s, ".")
	if len(parts) != 4 || parts[0] == "" {
		return "***"
	}

	return parts[0] + ".***"
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
