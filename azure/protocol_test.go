package azure

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextMessage(t *testing.T) {
	b := newTextMessage(speechConfigPath, "abc123", []byte(`{"context":{}}`))

	// Headers then a blank line then the body
	path, body, err := parseServerMessage(b)
	assert.NoError(t, err)
	assert.Equal(t, speechConfigPath, path)
	assert.Equal(t, `{"context":{}}`, string(body))
	assert.Contains(t, string(b), "X-RequestId: abc123\r\n")
}

func TestAudioMessage(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	b := newAudioMessage("abc123", payload)

	// The first 2 bytes carry the header size
	n := int(binary.BigEndian.Uint16(b[:2]))
	assert.True(t, n > 0)
	h := string(b[2 : 2+n])
	assert.Contains(t, h, "Path: audio\r\n")
	assert.Contains(t, h, "X-RequestId: abc123\r\n")
	assert.Equal(t, payload, b[2+n:])

	// An empty payload marks the end of the stream
	b = newAudioMessage("abc123", nil)
	n = int(binary.BigEndian.Uint16(b[:2]))
	assert.Equal(t, len(b), 2+n)
}

func TestParseServerMessage(t *testing.T) {
	path, body, err := parseServerMessage([]byte("X-RequestId: abc\r\nPath: speech.phrase\r\n\r\n{\"RecognitionStatus\":\"Success\"}"))
	assert.NoError(t, err)
	assert.Equal(t, phrasePath, path)
	assert.Equal(t, `{"RecognitionStatus":"Success"}`, string(body))

	// No delimiter
	_, _, err = parseServerMessage([]byte("Path: speech.phrase"))
	assert.Error(t, err)

	// No path header
	_, _, err = parseServerMessage([]byte("X-RequestId: abc\r\n\r\n{}"))
	assert.Error(t, err)
}

func TestWavHeader(t *testing.T) {
	h := wavHeader(32000, 16000, 1)
	assert.Len(t, h, 44)
	assert.Equal(t, "RIFF", string(h[:4]))
	assert.Equal(t, "WAVE", string(h[8:12]))

	// 16kHz mono 16-bit
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(h[24:28]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(h[28:32]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(h[34:36]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(h[40:44]))
}

func TestEncodeSamples(t *testing.T) {
	// 16-bit samples are passed through as little-endian bytes
	bs, err := encodeSamples([]int{1, -1, 256}, 16)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x01}, bs)
}
