package enums

import "fmt"

// ImageKind selects the storage folder an uploaded image lands in.
type ImageKind string

const (
	ImageKindBrand   ImageKind = "brand"
	ImageKindProduct ImageKind = "product"
)

var validImageKinds = []ImageKind{ImageKindBrand, ImageKindProduct}

// IsValid reports whether the value matches the canonical image kind enum.
func (k ImageKind) IsValid() bool {
	for _, candidate := range validImageKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseImageKind converts the raw string to ImageKind.
func ParseImageKind(value string) (ImageKind, error) {
	for _, candidate := range validImageKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image kind %q", value)
}
