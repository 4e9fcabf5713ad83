package equitywire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"event":"url_done","url":"https://example.com","added":12}`))
	require.NoError(t, err)
	assert.Equal(t, TagURLDone, rec.Tag())
	assert.Equal(t, "https://example.com", rec["url"])
	assert.EqualValues(t, 12, rec["added"])
}

func TestParseRecordMalformed(t *testing.T) {
	for _, payload := range []string{"not json", `["an", "array"]`, `42`, `"quoted"`} {
		_, err := ParseRecord([]byte(payload))
		assert.Error(t, err, "payload %q should not parse as a record", payload)
	}
}

func TestParseRecordNull(t *testing.T) {
	// "null" unmarshals into a nil map without error; the client treats it
	// as unparseable and falls back to a raw event.
	rec, err := ParseRecord([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecordTagMissing(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"answers":[]}`))
	require.NoError(t, err)
	assert.Empty(t, rec.Tag())

	rec, err = ParseRecord([]byte(`{"event":42}`))
	require.NoError(t, err)
	assert.Empty(t, rec.Tag(), "non-string event field yields no tag")
}
