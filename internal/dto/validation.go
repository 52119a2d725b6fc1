package dto

// ValidationResult is the structured verdict of the entry validator.
// IsValid is true iff Errors is empty; warnings never block.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewValidationResult builds a result from accumulated errors and warnings.
func NewValidationResult(errors, warnings []string) ValidationResult {
	return ValidationResult{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// BatchFailure records one failed item of a batch operation.
type BatchFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

/// BatchResult summarises a batch operation: one item's failure never aborts
// processing of the rest.
type BatchResult struct {
	Succeeded int            `json:"succeeded"`
	Failures  []BatchFailure `json:"failures"`
}
