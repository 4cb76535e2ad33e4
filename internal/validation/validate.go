package validation

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ConveyInsight/blobcopy/errors"
)

// ValidateContainerName validates that a container name complies with Azure
// Blob Storage naming rules. Returns ErrInvalidContainerName if the name is
// invalid.
func ValidateContainerName(container string) error {
	if err := validateContainerNameBasics(container); err != nil {
		return err
	}

	if err := validateContainerNameCharacters(container); err != nil {
		return err
	}

	return validateContainerNameStructure(container)
}

// ValidateBlobName validates that a blob name is acceptable to Azure Blob
// Storage. This includes preventing path traversal and control characters.
func ValidateBlobName(blob string) error {
	if blob == "" {
		return errors.NewError("validateBlobName", errors.ErrInvalidBlobName).
			WithMessage("blob name cannot be empty")
	}

	// Check for path traversal attempts
	if hasPathTraversal(blob) {
		return errors.NewError("validateBlobName", errors.ErrInvalidBlobName).
			WithBlob(blob).
			WithMessage("blob name cannot contain path traversal sequences")
	}

	// Azure supports blob names up to 1024 characters
	if len(blob) > 1024 {
		return errors.NewError("validateBlobName", errors.ErrInvalidBlobName).
			WithBlob(blob).
			WithMessage("blob name cannot exceed 1024 characters")
	}

	// Blob names can contain any UTF-8 character but control characters
	// are rejected by the service
	if hasControlCharacters(blob) {
		return errors.NewError("validateBlobName", errors.ErrInvalidBlobName).
			WithBlob(blob).
			WithMessage("blob name cannot contain control characters")
	}

	return nil
}

// ValidateAccountName validates an Azure storage account name: 3-24
// lowercase letters and digits.
func ValidateAccountName(account string) error {
	if account == "" {
		return errors.NewError("validateAccountName", errors.ErrInvalidInput).
			WithMessage("account name cannot be empty")
	}

	if len(account) < 3 || len(account) > 24 {
		return errors.NewError("validateAccountName", errors.ErrInvalidInput).
			WithMessage("account name must be between 3 and 24 characters long")
	}

	for _, char := range account {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'z')) {
			return errors.NewError("validateAccountName", errors.ErrInvalidInput).
				WithMessage("account name can only contain lowercase letters and numbers")
		}
	}

	return nil
}

// validateContainerNameBasics validates basic container name requirements
func validateContainerNameBasics(container string) error {
	if container == "" {
		return errors.NewError("validateContainerName", errors.ErrInvalidContainerName).
			WithContainer(container).
			WithMessage("container name cannot be empty")
	}

	// Container names must be between 3 and 63 characters long
	if len(container) < 3 || len(container) > 63 {
		return errors.NewError("validateContainerName", errors.ErrInvalidContainerName).
			WithContainer(container).
			WithMessage("container name must be between 3 and 63 characters long")
	}

	return nil
}

// validateContainerNameCharacters validates allowed characters in container names
func validateContainerNameCharacters(container string) error {
	// Container names can consist only of lowercase letters, numbers, and hyphens (-)
	for _, char := range container {
		if !isValidContainerChar(char) {
			return errors.NewError("validateContainerName", errors.ErrInvalidContainerName).
				WithContainer(container).
				WithMessage("container name can only contain lowercase letters, numbers, and hyphens")
		}
	}

	return nil
}

// validateContainerNameStructure validates container name structural requirements
func validateContainerNameStructure(container string) error {
	// Container names must start and end with a letter or number
	if container[0] == '-' || container[len(container)-1] == '-' {
		return errors.NewError("validateContainerName", errors.ErrInvalidContainerName).
			WithContainer(container).
			WithMessage("container name must start and end with a letter or number")
	}

	// Container names cannot contain two adjacent hyphens
	if strings.Contains(container, "--") {
		return errors.NewError("validateContainerName", errors.ErrInvalidContainerName).
			WithContainer(container).
			WithMessage("container name cannot contain two adjacent hyphens")
	}

	return nil
}

// isValidContainerChar checks if a character is valid in a container name
func isValidContainerChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '-'
}

// hasPathTraversal checks for path traversal attempts in blob names
func hasPathTraversal(blob string) bool {
	// Check for obvious traversal patterns
	if strings.Contains(blob, "..") {
		return true
	}

	// Use filepath.Clean to normalize the path and check for traversal
	cleaned := filepath.Clean(blob)

	// If the cleaned path starts with "..", it's a traversal attempt
	if strings.HasPrefix(cleaned, "..") {
		return true
	}

	// Check for absolute path attempts
	if strings.HasPrefix(cleaned, "/") {
		return true
	}

	// Check for Windows-style absolute paths
	if len(cleaned) >= 3 && cleaned[1] == ':' && (cleaned[2] == '\\' || cleaned[2] == '/') {
		return true
	}

	return false
}

// hasControlCharacters checks for control characters in the blob name
func hasControlCharacters(blob string) bool {
	for _, char := range blob {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
