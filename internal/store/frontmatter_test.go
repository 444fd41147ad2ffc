package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		wantBody string
		wantKeys int
	}{
		{name: "no frontmatter", content: "just text\n", wantBody: "just text\n"},
		{name: "empty frontmatter", content: "---\n---\nbody", wantBody: "body"},
		{name: "keys and body", content: "---\na: 1\nb: two\n---\nbody\n", wantBody: "body\n", wantKeys: 2},
		{name: "byte order mark", content: "\xef\xbb\xbf---\na: 1\n---\n", wantKeys: 1},
		{name: "unterminated", content: "---\na: 1\n", wantErr: dperrors.ErrTemplateParse},
		{name: "not a mapping", content: "---\n- a\n- b\n---\n", wantErr: dperrors.ErrTemplateParse},
		{name: "invalid yaml", content: "---\na: [\n---\n", wantErr: dperrors.ErrTemplateParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parseDocument([]byte(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(doc.body))
			assert.Len(t, doc.meta.Content, tt.wantKeys*2)
		})
	}
}

func TestDocument_SetAndRemove(t *testing.T) {
	doc, err := parseDocument([]byte("---\nfirst: 1\nsecond: 2\n---\n"))
	require.NoError(t, err)

	doc.setString("second", "changed")
	doc.setString("third", "new")
	doc.setString("first", "")
	doc.setInts("days", nil)

	assert.Empty(t, doc.str("first"))
	assert.Equal(t, "changed", doc.str("second"))
	assert.Equal(t, "new", doc.str("third"))
	assert.Nil(t, doc.get("days"))

	out, err := doc.encode()
	require.NoError(t, err)
	assert.Equal(t, "---\nsecond: changed\nthird: new\n---\n", string(out))
}

func TestDocument_List(t *testing.T) {
	doc, err := parseDocument([]byte("---\nseq: [1, 2]\ncsv: mon,tue\nnone: ~\n---\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, doc.list("seq"))
	assert.Equal(t, []string{"mon", "tue"}, doc.list("csv"))
	assert.Nil(t, doc.list("none"))
	assert.Nil(t, doc.list("missing"))
}

func TestParseHelpers(t *testing.T) {
	assert.True(t, parseBool("yes"))
	assert.True(t, parseBool("TRUE"))
	assert.False(t, parseBool("maybe"))

	assert.Equal(t, "2026-05-12", dateOnly("2026-05-12T09:00:00Z"))
	assert.Empty(t, dateOnly("12/05/2026"))
	assert.Empty(t, dateOnly(""))

	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, parseWeekdays([]string{"0", "Saturday", "7", "0", "xyz"}))
}
