package modelsuite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		routing      string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{name: "simple", routing: "openai:gpt-4o", wantProvider: "openai", wantModel: "gpt-4o"},
		{name: "model with colons", routing: "provider:model:tag:latest", wantProvider: "provider", wantModel: "model:tag:latest"},
		{name: "no colon", routing: "gpt-4o", wantErr: true},
		{name: "empty provider", routing: ":gpt-4o", wantErr: true},
		{name: "empty model", routing: "openai:", wantErr: true},
		{name: "empty string", routing: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			provider, model, err := ParseModel(testCase.routing)
			if testCase.wantErr {
				var formatErr *InvalidModelFormatError
				require.True(t, errors.As(err, &formatErr))
				assert.Equal(t, testCase.routing, formatErr.Model)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantProvider, provider)
			assert.Equal(t, testCase.wantModel, model)
		})
	}
}
