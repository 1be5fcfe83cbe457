package model

import (
	"fmt"
	"strings"
)

const maxNameLength = 20

// FormatName сокращает имя до 20 символов:
// "John Doe" -> как есть, длинные многочастные -> первое+последнее, иначе "J. Doe"
func FormatName(firstName, lastName string) string {
	fullName := fmt.Sprintf("%s %s", firstName, lastName)
	if len(fullName) <= maxNameLength {
		return fullName
	}

	parts := strings.Split(fullName, " ")
	if len(parts) > 3 {
		return parts[0] + " " + parts[len(parts)-1]
	}

	shortFirst := firstName
	if len(parts[0]) > 0 {
		shortFirst = parts[0][:1] + "."
	}
	shortName := shortFirst + " " + parts[len(parts)-1]
	if len(shortName) > maxNameLength {
		return shortFirst + " " + lastName
	}
	return shortName
}
