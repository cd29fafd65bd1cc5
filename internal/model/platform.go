package model

// platformUnknownStr is the string representation for unknown platform values.
const platformUnknownStr = "unknown"

// Platform identifies the catalog backend that produced a search result.
type Platform string

// Platform constants, in the order their results are merged.
const (
	// PlatformUnknown represents a platform that was not set.
	PlatformUnknown Platform = ""
	// PlatformKaggle is the Kaggle dataset marketplace.
	PlatformKaggle Platform = "kaggle"
	// PlatformHuggingFace is the Hugging Face model and dataset hub.
	PlatformHuggingFace Platform = "huggingface"
	// PlatformGitHub is the GitHub repository search index.
	PlatformGitHub Platform = "github"
)

// AllPlatforms returns every known platform in merge order.
func AllPlatforms() []Platform {
	return []Platform{PlatformKaggle, PlatformHuggingFace, PlatformGitHub}
}

// String returns the string representation of the Platform.
func (p Platform) String() string {
	if p == PlatformUnknown {
		return platformUnknownStr
	}
	return string(p)
}

// IsValid returns true if this is a known platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformKaggle, PlatformHuggingFace, PlatformGitHub:
		return true
	default:
		return false
	}
}

// DisplayName returns the brand name shown to users.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformKaggle:
		return "Kaggle"
	case PlatformHuggingFace:
		return "HuggingFace"
	case PlatformGitHub:
		return "GitHub"
	default:
		return "Unknown"
	}
}

// Icon returns the emoji prefix used when listing results from the platform.
func (p Platform) Icon() string {
	switch p {
	case PlatformKaggle:
		return "🏆"
	case PlatformHuggingFace:
		return "🤗"
	case PlatformGitHub:
		return "💻"
	default:
		return "🔗"
	}
}
