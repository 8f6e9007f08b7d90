// Package tool provides the domain model for single-string agent tools.
package tool

// RiskLevel indicates the potential impact of a tool execution.
type RiskLevel int

const (
	RiskNone   RiskLevel = iota // No risk - purely informational
	RiskLow                     // Low risk - reversible changes
	RiskMedium                  // Medium risk - visible writes
	RiskHigh                    // High risk - difficult to reverse
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Annotations describe tool behavior for listing and persona filtering.
type Annotations struct {
	// ReadOnly indicates the tool has no side effects.
	ReadOnly bool `json:"read_only" yaml:"read_only"`

	// Idempotent indicates multiple calls with same input yield same result.
	Idempotent bool `json:"idempotent" yaml:"idempotent"`

	// RiskLevel indicates the potential impact of execution.
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`

	// Tags are arbitrary labels for categorization.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DefaultAnnotations returns annotations with safe defaults.
func DefaultAnnotations() Annotations {
	return Annotations{
		RiskLevel: RiskLow,
	}
}

// HasTag reports whether the annotations carry tag.
func (a Annotations) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
