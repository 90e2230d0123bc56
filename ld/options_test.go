package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProcessingOptionsDefaults(t *testing.T) {
	opts := NewProcessingOptions("http://example.com/base")

	assert.Equal(t, "http://example.com/base", opts.Base)
	assert.Equal(t, JsonLd_1_1, opts.ProcessingMode)
	assert.True(t, opts.CompactArrays)
	assert.True(t, opts.CompactToRelative)
	assert.False(t, opts.Ordered)
	assert.NotNil(t, opts.DocumentLoader)
	assert.Nil(t, opts.Vocabulary)
	assert.Nil(t, opts.Warn)
}

func TestProcessingOptionsCopy(t *testing.T) {
	var warned []Warning
	original := &ProcessingOptions{
		Base:              "base",
		ProcessingMode:    JsonLd_1_0,
		CompactArrays:     true,
		CompactToRelative: true,
		Ordered:           true,
		ExpandContext:     map[string]interface{}{"@vocab": "http://example.com/"},
		DocumentLoader:    NewHTTPDocumentLoader(nil),
		Warn:              func(w Warning) { warned = append(warned, w) },
	}

	cp := original.Copy()

	assert.Equal(t, original.Base, cp.Base)
	assert.Equal(t, original.ProcessingMode, cp.ProcessingMode)
	assert.Equal(t, original.CompactArrays, cp.CompactArrays)
	assert.Equal(t, original.CompactToRelative, cp.CompactToRelative)
	assert.Equal(t, original.Ordered, cp.Ordered)
	assert.Equal(t, original.ExpandContext, cp.ExpandContext)

	// reference fields are shared, not cloned
	assert.Same(t, original.DocumentLoader, cp.DocumentLoader)
	cp.Warn(Warning{Kind: WarnEmptyTerm})
	assert.Len(t, warned, 1)
}
