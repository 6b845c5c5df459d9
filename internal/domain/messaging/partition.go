package messaging

import (
	"github.com/masgolf/backend/internal/domain/shared/valueobject"
)

// MaxChunk is the Solapi send-many batch limit
const MaxChunk = 200

// VariantLabel names the i-th split group: A, B, C, ...
func VariantLabel(i int) string {
	return string(rune('A' + i))
}

// ValidRecipients normalizes numbers, keeping unique valid mobiles in input order.
// Rejected numbers are returned as given.
func ValidRecipients(numbers []string) (valid, invalid []string) {
	seen := make(map[string]bool, len(numbers))
	valid = make([]string, 0, len(numbers))
	for _, raw := range numbers {
		phone, ok := valueobject.NormalizePhone(raw)
		if !ok {
			invalid = append(invalid, raw)
			continue
		}
		if seen[phone] {
			continue
		}
		seen[phone] = true
		valid = append(valid, phone)
	}
	return valid, invalid
}

// SplitRecipients assigns the i-th unique normalized phone to group i mod n.
// Every valid phone lands in exactly one group; invalid input is returned separately.
func SplitRecipients(numbers []string, n int) (groups [][]string, invalid []string) {
	if n < 1 {
		n = 1
	}
	valid, invalid := ValidRecipients(numbers)
	groups = make([][]string, n)
	for i := range groups {
		groups[i] = []string{}
	}
	for i, phone := range valid {
		groups[i%n] = append(groups[i%n], phone)
	}
	return groups, invalid
}

// Chunk splits items into consecutive slices of at most size elements
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = MaxChunk
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Exclude drops phones present in skip, preserving order
func Exclude(phones []string, skip map[string]bool) []string {
	if len(skip) == 0 {
		return phones
	}
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		if !skip[p] {
			out = append(out, p)
		}
	}
	return out
}
