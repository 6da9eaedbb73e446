package archive_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-grab/archive"
)

func readEntries(t *testing.T, data []byte) ([]string, map[string]string) {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	contents := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		names = append(names, f.Name)
		contents[f.Name] = string(body)
	}
	return names, contents
}

func TestBuilder_PreservesInsertionOrder(t *testing.T) {
	b := archive.New()
	require.NoError(t, b.Add("zeta.txt", []byte("Z")))
	require.NoError(t, b.Add("alpha.txt", []byte("A")))
	assert.Equal(t, 2, b.Len())

	data, err := b.Bytes()
	require.NoError(t, err)

	names, contents := readEntries(t, data)
	assert.Equal(t, []string{"zeta.txt", "alpha.txt"}, names)
	assert.Equal(t, "Z", contents["zeta.txt"])
	assert.Equal(t, "A", contents["alpha.txt"])
}

func TestBuilder_Empty(t *testing.T) {
	data, err := archive.New().Bytes()
	require.NoError(t, err)

	names, _ := readEntries(t, data)
	assert.Empty(t, names)
}

func TestBuilder_RejectsDuplicatesAndLateAdds(t *testing.T) {
	b := archive.New()
	require.NoError(t, b.Add("a.txt", nil))
	assert.Error(t, b.Add("a.txt", nil))

	_, err := b.Bytes()
	require.NoError(t, err)
	assert.ErrorIs(t, b.Add("b.txt", nil), archive.ErrClosed)
}

func TestBuilder_Deterministic(t *testing.T) {
	build := func() []byte {
		b := archive.New()
		require.NoError(t, b.Add("a.txt", []byte("A content")))
		require.NoError(t, b.Add("b.txt", []byte("B content")))
		data, err := b.Bytes()
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, build(), build())
}
