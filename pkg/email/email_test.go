package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreetingName(t *testing.T) {
	cases := map[string]string{
		"jane.doe@example.com":     "Jane",
		"JANE_DOE+uni@example.com": "Jane",
		"123.amir@example.com":     "Amir",
		"42@example.com":           "Applicant",
		"":                         "Applicant",
	}
	for in, want := range cases {
		assert.Equal(t, want, GreetingName(in), in)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "j***@example.com", Mask("jane@example.com"))
	assert.Equal(t, "***", Mask("not-an-address"))
}
