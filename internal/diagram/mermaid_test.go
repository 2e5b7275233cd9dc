package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olehluchkiv/spigen/internal/registry"
)

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "classDiagram", GenerateMermaid(nil, DiagramOptions{}))
}

func TestGenerateMermaid_SharedProvider(t *testing.T) {
	entries := []registry.Entry{
		{Contract: "example.com/api.Codec", Implementations: []string{"example.com/impl.JSON", "example.com/impl.Text"}},
		{Contract: "example.com/api.Named", Implementations: []string{"example.com/impl.JSON"}},
	}
	out := GenerateMermaid(entries, DiagramOptions{})

	assert.True(t, strings.HasPrefix(out, "classDiagram\n    direction LR\n"))
	assert.Contains(t, out, "class example_com_api_Codec[\"example.com/api.Codec\"] {\n        <<interface>>\n    }")
	assert.Equal(t, 1, strings.Count(out, "class example_com_impl_JSON["), "provider node is emitted once")
	assert.Contains(t, out, "example_com_impl_JSON ..|> example_com_api_Codec")
	assert.Contains(t, out, "example_com_impl_Text ..|> example_com_api_Codec")
	assert.Contains(t, out, "example_com_impl_JSON ..|> example_com_api_Named")
	assert.Contains(t, out, "cssClass \"example_com_api_Named\" contractStyle")
	assert.Contains(t, out, "cssClass \"example_com_impl_Text\" providerStyle")

	codec := strings.Index(out, "..|> example_com_api_Codec")
	named := strings.Index(out, "..|> example_com_api_Named")
	assert.Less(t, codec, named, "relations follow registry order")
}

func TestGenerateMermaid_IncludeInit(t *testing.T) {
	entries := []registry.Entry{{Contract: "a.Animal", Implementations: []string{"a.Cat"}}}
	out := GenerateMermaid(entries, DiagramOptions{IncludeInit: true})
	assert.True(t, strings.HasPrefix(out, "%%{init:"))
}

func TestNodeID(t *testing.T) {
	assert.Equal(t, "com_example_Outer_Inner", NodeID("com.example.Outer$Inner"))
	assert.Equal(t, "github_com_x_y_z_T", NodeID("github.com/x-y/z.T"))
}
