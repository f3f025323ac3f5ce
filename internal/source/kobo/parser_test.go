package kobo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/kobo-jadict/internal/domain"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, members map[string][]byte) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "dicthtml-ja.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return p
}

func TestParse(t *testing.T) {
	t.Parallel()

	p := writeArchive(t, map[string][]byte{
		"ta.html": gzipped(t, `<html><head></head><body>`+
			`<w><a name="たべる"/><var><variant name="食べる"/></var><p><b>たべる【食べる・喰べる】</b></p><p>食物を口に入れる。</p></w>`+
			`<w><a name="たぬき"/><p>たぬき</p><p>動物。</p></w>`+
			`</body></html>`),
		"ha.html": []byte(`<w><a name="はし"></a><p>はし【橋】</p><p>川に渡す。</p></w>`),
		"words":   []byte("not html"),
	})

	result, err := Parse(p)
	require.NoError(t, err)

	assert.Equal(t, Stats{Files: 2, Blocks: 3, Entries: 4}, result.Stats)
	require.Len(t, result.Entries, 4)

	// ha.html sorts before ta.html.
	assert.Equal(t, domain.NativeEntry{
		Key:        "橋",
		Kana:       "はし",
		Definition: "<p>はし【橋】</p><p>川に渡す。</p>",
	}, result.Entries[0])

	assert.Equal(t, "食べる", result.Entries[1].Key)
	assert.Equal(t, "喰べる", result.Entries[2].Key)
	assert.Equal(t, "たべる", result.Entries[1].Kana)
	assert.Equal(t, result.Entries[1].Definition, result.Entries[2].Definition)
	assert.NotContains(t, result.Entries[1].Definition, "variant")
	assert.Contains(t, result.Entries[1].Definition, "食物を口に入れる。")

	assert.Equal(t, domain.NativeEntry{Key: "たぬき", Kana: "たぬき", Definition: "<p>たぬき</p><p>動物。</p>"}, result.Entries[3])
}

func TestParse_NotAnArchive(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(p, []byte("plain text"), 0o644))

	_, err := Parse(p)
	assert.Error(t, err)
}

func TestSplitHeadword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		text         string
		anchor       string
		wantReading  string
		wantWritings []string
	}{
		{"bracketed", "あい【愛】 名詞", "", "あい", []string{"愛"}},
		{"several writings", " かける【掛ける・懸ける】", "", "かける", []string{"掛ける", "懸ける"}},
		{"no brackets uses anchor", "ねこ 動物", "ねこ", "ねこ", nil},
		{"no brackets no anchor", "ねこ 動物", "", "ねこ", nil},
		{"empty reading falls back to anchor", "【猫】", "ねこ", "ねこ", []string{"猫"}},
		{"empty", "", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reading, writings := splitHeadword(tt.text, tt.anchor)
			assert.Equal(t, tt.wantReading, reading)
			assert.Equal(t, tt.wantWritings, writings)
		})
	}
}
