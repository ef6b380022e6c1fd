package util

import (
	"fmt"
	"strings"
)

// CollectionNameMaxLength bounds tenant collection names. MongoDB limits the
// full namespace (database + "." + collection) to 255 bytes.
const CollectionNameMaxLength = 120

// ValidateCollectionName checks that value can be used as a MongoDB
// collection name:
// - must not be empty or exceed CollectionNameMaxLength bytes
// - must not contain '$' or the null character
// - must not start with "system."
func ValidateCollectionName(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if len(value) > CollectionNameMaxLength {
		return fmt.Errorf("collection name must be no more than %d bytes", CollectionNameMaxLength)
	}
	if strings.ContainsAny(value, "$\x00") {
		return fmt.Errorf("collection name must not contain '$' or null characters")
	}
	if strings.HasPrefix(value, "system.") {
		return fmt.Errorf("collection name must not start with \"system.\"")
	}
	return nil
}
