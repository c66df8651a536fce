package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/wellspace/pkg/validator"
)

func TestBasicURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"https://example.com/sessions/morning.json",
		"http://example.com",
		"example.com/data.json",
		"cdn.example.io/a/b/c",
	}
	for _, v := range valid {
		t.Run(v, func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, validator.Apply(validator.BasicURL("json_file_url", v)))
		})
	}

	invalid := []string{
		"",
		"   ",
		"not a url",
		"http://",
		"just-words",
		"https://EXAMPLE.COM/flow.json",
		"CDN.example.com/flow.json",
	}
	for _, v := range invalid {
		t.Run("invalid_"+v, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, validator.Apply(validator.BasicURL("json_file_url", v)))
		})
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.ValidEmail("email", "user@example.com")))
	assert.Error(t, validator.Apply(validator.ValidEmail("email", "not-an-email")))
	assert.Error(t, validator.Apply(validator.ValidEmail("email", "user@localhost")))
	assert.Error(t, validator.Apply(validator.ValidEmail("email", "")))
}
