package model

import "time"

// VaultCategory is the backend's closed set of vault file categories.
type VaultCategory string

const (
	VaultCategoryResume      VaultCategory = "RESUME"
	VaultCategoryCertificate VaultCategory = "CERTIFICATE"
	VaultCategoryOther       VaultCategory = "OTHER"
)

// ParseVaultCategory maps a form value onto a known category, defaulting to RESUME.
func ParseVaultCategory(s string) VaultCategory {
	switch VaultCategory(s) {
	case VaultCategoryCertificate, VaultCategoryOther:
		return VaultCategory(s)
	default:
		return VaultCategoryResume
	}
}

// VaultFile is a private file stored by the backend.
type VaultFile struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	FileURL    string        `json:"file_url"`
	Category   VaultCategory `json:"category"`
	UploadedAt time.Time     `json:"uploaded_at"`
	Size       string        `json:"size"`
}
