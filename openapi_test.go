package wrywebdriver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentLoadsAndValidates(t *testing.T) {
	require.NotNil(t, OpenAPIDocument)
	require.NotNil(t, OpenAPIDocument.Info)
	require.Equal(t, "wry-webdriver", OpenAPIDocument.Info.Title)
	require.NoError(t, OpenAPIDocument.Validate(context.Background()))
}
