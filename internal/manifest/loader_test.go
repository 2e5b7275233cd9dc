package manifest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/spigen/internal/contract"
	"github.com/olehluchkiv/spigen/internal/descriptor"
	"github.com/olehluchkiv/spigen/internal/hierarchy"
	"github.com/olehluchkiv/spigen/internal/processor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestLoadFile_Animals(t *testing.T) {
	m, err := LoadFile(filepath.Join("testdata", "animals.yaml"), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "java.lang.Object", m.Root())
	assert.Equal(t, []contract.Implementation{
		{ID: "com.example.Cat"},
		{ID: "com.example.Dog"},
		{ID: "com.example.Mule", Declared: []string{"com.example.Horse"}},
		{ID: "com.example.ByLength"},
		{ID: "com.example.ByValue"},
	}, m.Implementations())
	assert.Equal(t, []string{"java.util.Comparator"}, m.Dangling)

	diags := m.Diagnostics()
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "dangling-reference", diags.Warnings[0].Code)
	assert.Contains(t, diags.Warnings[0].Message, "java.util.Comparator")

	st, ok := m.Lookup("com.example.Horse")
	require.True(t, ok)
	assert.Equal(t, []string{"com.example.Equine"}, st.Interfaces)
}

func TestLoadFile_EndToEnd(t *testing.T) {
	m, err := LoadFile(filepath.Join("testdata", "animals.yaml"), testLogger())
	require.NoError(t, err)

	p := processor.New(processor.Options{
		RootType: m.Root(),
		Classes:  hierarchy.ClassesDirect,
	}, testLogger())
	mem := descriptor.NewMemWriter()
	_, _, err = p.Run(m, mem)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"META-INF/services/com.example.Animal",
		"META-INF/services/com.example.Horse",
		"META-INF/services/java.util.Comparator",
	}, mem.Names())

	got, _ := mem.Get("META-INF/services/com.example.Animal")
	assert.Equal(t, "com.example.Cat\ncom.example.Dog\n", string(got))
	got, _ = mem.Get("META-INF/services/java.util.Comparator")
	assert.Equal(t, "com.example.ByLength\ncom.example.ByValue\n", string(got))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "nope.yaml"), testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestParse_JSON(t *testing.T) {
	m, err := Parse([]byte(`{"types": [{"id": "A", "interfaces": ["I"], "provider": {"contracts": ["I"]}}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultRoot, m.Root())
	assert.Equal(t, []contract.Implementation{{ID: "A", Declared: []string{"I"}}}, m.Implementations())
}

func TestParse_Unmarked(t *testing.T) {
	m, err := Parse([]byte("types:\n  - id: A\n    interfaces: [I]\n"))
	require.NoError(t, err)
	assert.Empty(t, m.Implementations())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "types: [", "failed to parse manifest"},
		{"empty id", "types:\n  - interfaces: [I]\n", "empty id"},
		{"duplicate", "types:\n  - id: A\n  - id: A\n", "duplicate type A"},
		{"duplicate after erasure", "types:\n  - id: A<T>\n  - id: A\n", "duplicate type A"},
		{"root provider", "types:\n  - id: java.lang.Object\n    provider: {}\n", "cannot be a provider"},
		{"cycle", "types:\n  - id: A\n    extends: B\n  - id: B\n    extends: C\n  - id: C\n    extends: A\n", "inheritance cycle"},
		{"self cycle", "types:\n  - id: A\n    extends: A\n", "inheritance cycle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_CustomRoot(t *testing.T) {
	m, err := Parse([]byte("root: Base\ntypes:\n  - id: Impl\n    extends: Base\n    interfaces: [Svc]\n    provider: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "Base", m.Root())
	assert.Equal(t, []string{"Svc"}, m.Dangling)
}

func TestParse_ProviderKeyWithoutValue(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty value", "types:\n  - id: com.example.Cat\n    interfaces: [com.example.Animal]\n    provider:\n"},
		{"explicit null", "types:\n  - id: com.example.Cat\n    interfaces: [com.example.Animal]\n    provider: null\n"},
		{"json null", `{"types": [{"id": "com.example.Cat", "interfaces": ["com.example.Animal"], "provider": null}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			impls := m.Implementations()
			require.Len(t, impls, 1)
			assert.Equal(t, "com.example.Cat", impls[0].ID)
			assert.Empty(t, impls[0].Declared)
		})
	}
}
