package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenderAnalyzerInvalidAddress(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("no-at-sign", "")
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, []string{"Invalid sender email format"}, result.Reasons)
	assert.Equal(t, "", result.Domain)
}

func TestSenderAnalyzerCleanSender(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("support@paypal.com", "PayPal")
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, "paypal.com", result.Domain)
}

func TestSenderAnalyzerBrandMismatch(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("alerts@secure-pay.top", "PayPal Support")
	assert.Equal(t, 25.0, result.Score)
	assert.Equal(t, []string{"Sender name references Paypal but email domain is secure-pay.top"}, result.Reasons)
	assert.Equal(t, "secure-pay.top", result.Domain)
}

func TestSenderAnalyzerNumericDomain(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("info@mail12345.com", "")
	assert.Equal(t, 8.0, result.Score)
	assert.Equal(t, []string{"Sender domain contains unusual numeric pattern"}, result.Reasons)
}

func TestSenderAnalyzerFreeProvider(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("bob@gmail.com", "")
	assert.Equal(t, 6.0, result.Score)
	assert.Equal(t, []string{"Sender uses a free email provider"}, result.Reasons)
}

func TestSenderAnalyzerPenaltiesStack(t *testing.T) {
	a := NewSenderAnalyzer()

	// Numeric run plus brand impersonation
	result := a.Analyze("alerts@pay4711pal-alerts.net", "Amazon Billing")
	assert.Equal(t, 33.0, result.Score)
	assert.Len(t, result.Reasons, 2)
}

func TestSenderAnalyzerBankBrandSkipped(t *testing.T) {
	a := NewSenderAnalyzer()

	// "bank" has no expected domain, so the display name alone is not enough
	result := a.Analyze("info@my-bank-alerts.com", "Your Bank")
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Reasons)
}

func TestSenderAnalyzerDomainIsLowercased(t *testing.T) {
	a := NewSenderAnalyzer()

	result := a.Analyze("Bob@GMAIL.COM", "")
	assert.Equal(t, "gmail.com", result.Domain)
	assert.Equal(t, 6.0, result.Score)
}
