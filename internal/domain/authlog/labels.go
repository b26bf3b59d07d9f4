package authlog

import (
	"math"
	"strings"
)

const (
	LabelUnknown      = "Unknown"
	LabelCustomSender = "Custom sender"
	LabelGenericError = "Something went wrong"
)

var providerLabels = map[string]string{
	"sendgrid": "SendGrid",
	"ses":      "Amazon SES",
	"postmark": "Postmark",
	"mailgun":  "Mailgun",
	"twilio":   "Twilio",
}

// ProviderLabel maps a delivery provider identifier to its display name.
func ProviderLabel(provider string, hasCustomSMTP bool) string {
	if provider == "" {
		if hasCustomSMTP {
			return LabelCustomSender
		}
		return LabelUnknown
	}
	if label, ok := providerLabels[strings.ToLower(provider)]; ok {
		return label
	}
	return LabelUnknown
}

// EventTypeLabel returns the display label for status. Error statuses prefer
// the detail text reported by the backend.
func EventTypeLabel(status Status, isPending bool, errorDetail string) string {
	desc, err := LookupStatus(status)
	if err != nil {
		return LabelUnknown
	}
	if desc.IsError {
		if errorDetail != "" {
			return errorDetail
		}
		if status == StatusError || status == StatusDeviceRegistrationError {
			return LabelGenericError
		}
		return desc.CompleteLabel
	}
	if isPending {
		return desc.PendingLabel
	}
	return desc.CompleteLabel
}

// ErrorCount sums the counts of every error status.
func ErrorCount(counts []StatusCount) (int64, error) {
	var total int64
	for _, c := range counts {
		isErr, err := IsErrorStatus(c.Status)
		if err != nil {
			return 0, err
		}
		if isErr {
			total += c.Count
		}
	}
	return total, nil
}

// ConversionRate is the percentage of initiated logins that succeeded, rounded
// to two decimals. Zero initiated logins yield NaN or +Inf.
func ConversionRate(counts []StatusCount) float64 {
	var initiated, success int64
	for _, c := range counts {
		switch c.Status {
		case StatusLoginInitiated:
			initiated += c.Count
		case StatusLoginSuccess:
			success += c.Count
		}
	}
	rate := float64(success) / float64(initiated) * 100
	return math.Round(rate*100) / 100
}
