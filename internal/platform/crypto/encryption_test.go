package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestSealOpenRoundTrip(t *testing.T) {
	svc, err := New(testKey)
	require.NoError(t, err)
	require.True(t, svc.Configured())

	sealed, err := svc.Seal([]byte("net pay 555.82"))
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "555.82")

	plain, err := svc.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "net pay 555.82", string(plain))
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("too-short")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "32 bytes"))
}

func TestWriteFileWithoutKeyWritesPlain(t *testing.T) {
	svc, err := New("")
	require.NoError(t, err)
	require.False(t, svc.Configured())

	path := filepath.Join(t.TempDir(), "slip.pdf")
	written, err := svc.WriteFile(path, []byte("plain"))
	require.NoError(t, err)
	require.Equal(t, path, written)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	require.Equal(t, "plain", string(data))
}

func TestWriteFileWithKeySeals(t *testing.T) {
	svc, err := New(testKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "slip.pdf")
	written, err := svc.WriteFile(path, []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, path+SealedSuffix, written)
	require.NoFileExists(t, path)

	data, err := os.ReadFile(written)
	require.NoError(t, err)
	plain, err := svc.Open(data)
	require.NoError(t, err)
	require.Equal(t, "secret", string(plain))
}

func TestOpenRejectsTruncatedCiphertext(t *testing.T) {
	svc, err := New(testKey)
	require.NoError(t, err)
	_, err = svc.Open([]byte{1, 2, 3})
	require.Error(t, err)
}
