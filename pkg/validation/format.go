// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/matchday-dashboard/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateRatingPolicy checks if the invalid-rating policy is one of the supported policies.
func ValidateRatingPolicy(policy string) error {
	if policy != constants.RatingPolicySkip && policy != constants.RatingPolicyReject {
		return fmt.Errorf("expected rating policy of %s or %s, got %s",
			constants.RatingPolicySkip, constants.RatingPolicyReject, policy)
	}
	return nil
}
