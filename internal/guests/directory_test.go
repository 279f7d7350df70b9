package guests

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/models"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestResolveEnvWinsOverStatic(t *testing.T) {
	env := EnvSource{Var: "GUEST_LIST", Lookup: envOf(map[string]string{
		"GUEST_LIST": `{"x":{"names":["Sam","Lee"]}}`,
	})}
	static := StaticSource{Data: []byte(`{"y":{"names":["Jo"]}}`)}

	dir := Resolve(zerolog.Nop(), env, static)

	require.Equal(t, "env:GUEST_LIST", dir.Source())
	require.Equal(t, []string{"x"}, dir.IDs())
	_, ok := dir.Lookup("y")
	require.False(t, ok, "sources must not be merged")
}

func TestResolveMalformedEnvFallsThrough(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	env := EnvSource{Var: "GUEST_LIST", Lookup: envOf(map[string]string{"GUEST_LIST": `{not json`})}
	static := StaticSource{Data: []byte(`{"y":{"names":["Jo"]}}`)}

	var dir *Directory
	require.NotPanics(t, func() { dir = Resolve(log, env, static) })

	require.Equal(t, "static", dir.Source())
	rec, ok := dir.Lookup("y")
	require.True(t, ok)
	require.Equal(t, []string{"Jo"}, rec.Names)
	require.Contains(t, buf.String(), "Ignoring guest source")
}

func TestResolveMalformedOnlySourceIsEmpty(t *testing.T) {
	env := EnvSource{Var: "GUEST_LIST", Lookup: envOf(map[string]string{"GUEST_LIST": `[1,2`})}

	dir := Resolve(zerolog.Nop(), env, StaticSource{Data: []byte(`{}`)})

	require.Zero(t, dir.Len())
	require.Empty(t, dir.Source())
	_, ok := dir.Lookup("x")
	require.False(t, ok)
}

func TestResolveEmptyObjectFallsThrough(t *testing.T) {
	env := EnvSource{Var: "GUEST_LIST", Lookup: envOf(map[string]string{"GUEST_LIST": `{}`})}
	file := FileSource{Path: filepath.Join("testdata", "guests.json")}

	dir := Resolve(zerolog.Nop(), env, file)
	require.Equal(t, "file:"+filepath.Join("testdata", "guests.json"), dir.Source())
}

func TestResolveFileSanitizesRecords(t *testing.T) {
	dir := Resolve(zerolog.Nop(), FileSource{Path: filepath.Join("testdata", "guests.json")})

	want := map[string]models.GuestRecord{
		"sam-lee": {Names: []string{"Sam", "Lee"}, Email: "sam@example.com"},
		"jo":      {Names: []string{"Jo"}, Phone: "+44 7700 900123"},
	}
	got := map[string]models.GuestRecord{}
	for _, id := range dir.IDs() {
		rec, ok := dir.Lookup(id)
		require.True(t, ok)
		got[id] = rec
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("directory mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveMissingFileIsSilent(t *testing.T) {
	var buf bytes.Buffer
	dir := Resolve(zerolog.New(&buf), FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.Zero(t, dir.Len())
	require.NotContains(t, buf.String(), "Ignoring guest source")
}

func TestResolveNoSources(t *testing.T) {
	dir := Resolve(zerolog.Nop())
	require.Zero(t, dir.Len())
	require.Empty(t, dir.IDs())
}

func TestEnvSourceUsesProcessEnvironment(t *testing.T) {
	t.Setenv("WEDDING_TEST_GUESTS", `{"a":{"names":["Ann"]}}`)
	dir := Resolve(zerolog.Nop(), NewEnvSource("WEDDING_TEST_GUESTS"))
	rec, ok := dir.Lookup(" a ")
	require.True(t, ok)
	require.Equal(t, []string{"Ann"}, rec.Names)
}

func TestLookupReturnsCopy(t *testing.T) {
	dir := Resolve(zerolog.Nop(), StaticSource{Data: []byte(`{"x":{"names":["Sam","Lee"]}}`)})
	rec, _ := dir.Lookup("x")
	rec.Names[0] = "Changed"

	again, _ := dir.Lookup("x")
	require.Equal(t, "Sam", again.Names[0])
}

func TestBundledPlaceholderIsEmpty(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("data", "guests.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))

	dir := Resolve(zerolog.Nop(), NewStaticSource())
	require.Zero(t, dir.Len())
}

func TestNilDirectory(t *testing.T) {
	var dir *Directory
	_, ok := dir.Lookup("x")
	require.False(t, ok)
	require.Zero(t, dir.Len())
	require.Nil(t, dir.IDs())
}
