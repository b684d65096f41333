package profile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/actlog/actlog-go/internal/safefile"
	"github.com/actlog/actlog-go/pkg/actlog"
)

const (
	// MaxFileSize is the largest profile Load accepts.
	MaxFileSize = 256 * 1024

	// MaxRules bounds status_colors.
	MaxRules = 256

	// MaxPetNames bounds pet_names.
	MaxPetNames = 512

	// SupportedVersion is the only accepted profile version.
	SupportedVersion = 1
)

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// sanitizePathError drops the path from an *os.PathError so messages do not
// leak file system layout.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and validates a profile. Symlinks and special files are
// rejected, and files over MaxFileSize are not read.
func Load(path string) (*Profile, error) {
	data, _, err := safefile.ReadLimited(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", sanitizePathError(err))
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a profile held in memory.
func LoadBytes(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, errors.New("profile is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("profile too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the version, the bounds of every list, role label
// uniqueness and the shape of each color rule.
func (p *Profile) Validate() error {
	if p.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", p.Version, SupportedVersion),
		}
	}

	if len(p.PetNames) > MaxPetNames {
		return &ValidationError{Field: "pet_names", Message: fmt.Sprintf("too many names (%d), maximum allowed is %d", len(p.PetNames), MaxPetNames)}
	}
	for i, name := range p.PetNames {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Field: "pet_names", Message: fmt.Sprintf("entry %d is empty", i)}
		}
	}

	if len(p.RoleLabels) > actlog.MaxPartySize {
		return &ValidationError{Field: "role_labels", Message: fmt.Sprintf("at most %d labels allowed, got %d", actlog.MaxPartySize, len(p.RoleLabels))}
	}
	seen := make(map[string]int, len(p.RoleLabels))
	for i, label := range p.RoleLabels {
		if strings.TrimSpace(label) == "" {
			return &ValidationError{Field: "role_labels", Message: fmt.Sprintf("label %d is empty", i)}
		}
		if prev, ok := seen[label]; ok {
			return &ValidationError{Field: "role_labels", Message: fmt.Sprintf("duplicate label %q (previously at %d)", label, prev)}
		}
		seen[label] = i
	}

	if p.FPS < 0 || p.FPS > 240 {
		return &ValidationError{Field: "fps", Message: fmt.Sprintf("must be between 0 and 240, got %d", p.FPS)}
	}
	if p.Background != "" && !colorRe.MatchString(p.Background) {
		return &ValidationError{Field: "background", Message: fmt.Sprintf("%q is not a #rgb or #rrggbb color", p.Background)}
	}

	if len(p.StatusColors) > MaxRules {
		return &ValidationError{Field: "status_colors", Message: fmt.Sprintf("too many rules (%d), maximum allowed is %d", len(p.StatusColors), MaxRules)}
	}
	for i, r := range p.StatusColors {
		if len(r.Keywords) == 0 {
			return &RuleError{Index: i, Field: "keywords", Message: "at least one keyword is required"}
		}
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				return &RuleError{Index: i, Field: "keywords", Message: "keywords must not be empty"}
			}
		}
		if !colorRe.MatchString(r.Color) {
			return &RuleError{Index: i, Field: "color", Message: fmt.Sprintf("%q is not a #rgb or #rrggbb color", r.Color)}
		}
	}
	return nil
}
