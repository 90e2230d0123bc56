package ld

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveContextParseLoaderErrors(t *testing.T) {
	expectedError := errors.New("failed")
	opts := NewProcessingOptions("")
	opts.DocumentLoader = errorDocumentLoader{err: expectedError}

	t.Run("DocumentLoader can't resolve @context URL", func(t *testing.T) {
		ctx := NewActiveContext(nil, opts)
		_, err := ctx.Parse("http://example.org/foo.ldjson")
		jsonLDError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLDError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLDError.Code)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
	t.Run("DocumentLoader can't resolve @import", func(t *testing.T) {
		ctx := NewActiveContext(nil, opts)
		_, err := ctx.Parse(map[string]interface{}{
			"@import": "http://example.org/foo.ldjson",
		})
		jsonLDError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLDError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLDError.Code)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})
}

func TestActiveContextTypedTermDefinition(t *testing.T) {
	opts := NewProcessingOptions("")
	ctx, err := NewActiveContext(nil, opts).Parse(map[string]interface{}{
		"label": map[string]interface{}{
			"@id":        "http://example.com/label",
			"@container": "@language",
			"@protected": true,
		},
		"shadowed": nil,
	})
	require.NoError(t, err)

	td, ok := ctx.TypedTermDefinition("label")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/label", td.Value.String())
	assert.True(t, td.Protected)
	assert.True(t, td.Container.Has(ContainerLanguage))
	assert.False(t, td.Container.Has(ContainerList))

	td, ok = ctx.TypedTermDefinition("shadowed")
	require.True(t, ok)
	assert.True(t, td.Value.IsNull())

	_, ok = ctx.TypedTermDefinition("undefined")
	assert.False(t, ok)
}

func TestActiveContextGetPrefixes(t *testing.T) {
	opts := NewProcessingOptions("")
	ctx, err := NewActiveContext(nil, opts).Parse(map[string]interface{}{
		"foaf": "http://xmlns.com/foaf/0.1/",
		"name": "http://xmlns.com/foaf/0.1/name",
	})
	require.NoError(t, err)

	common := ctx.GetPrefixes(true)
	assert.Equal(t, map[string]string{"foaf": "http://xmlns.com/foaf/0.1/"}, common)

	all := ctx.GetPrefixes(false)
	assert.Equal(t, map[string]string{
		"foaf": "http://xmlns.com/foaf/0.1/",
		"name": "http://xmlns.com/foaf/0.1/name",
	}, all)
}

type errorDocumentLoader struct {
	err error
}

func (l errorDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	return nil, l.err
}
