package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStartsWithInit(t *testing.T) {
	d := NewDocument(Width58mm)

	assert.True(t, bytes.HasPrefix(d.Bytes(), []byte{ESC, '@'}))
}

func TestKeyValuePadsToWidth(t *testing.T) {
	d := NewDocument(Width58mm)
	d.Reset()
	d.KeyValue("Total", "405.00")

	out := d.Bytes()
	// skip the init sequence and trailing line feed
	line := string(out[2 : len(out)-1])
	require.Len(t, line, Width58mm)
	assert.True(t, strings.HasPrefix(line, "Total"))
	assert.True(t, strings.HasSuffix(line, "405.00"))
}

func TestItemLineFormat(t *testing.T) {
	d := NewDocument(Width58mm)
	d.Reset()
	d.ItemLine(2, "Soda", "30.00")

	out := d.Bytes()
	line := string(out[2 : len(out)-1])
	require.Len(t, line, Width58mm)
	assert.True(t, strings.HasPrefix(line, "2x Soda"))
	assert.True(t, strings.HasSuffix(line, "30.00"))
}

func TestSeparatorWidth(t *testing.T) {
	d := NewDocument(40)
	d.Reset()
	d.Separator('-')

	out := d.Bytes()
	line := string(out[2 : len(out)-1])
	assert.Equal(t, strings.Repeat("-", 40), line)
}

func TestPartialCutBytes(t *testing.T) {
	d := NewDocument(Width58mm)
	d.PartialCut()

	assert.True(t, bytes.HasSuffix(d.Bytes(), []byte{GS, 'V', 0x01}))
}
