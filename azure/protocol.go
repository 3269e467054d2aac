package azure

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/asticode/go-astikit"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// The service expresses offsets and durations in 100ns ticks
const ticksPerSecond = 1e7

// Audio is pushed as 16-bit little-endian PCM regardless of the source depth
const wireBitDepth = 16

// Message paths
const (
	audioPath         = "audio"
	endDetectedPath   = "speech.enddetected"
	hypothesisPath    = "speech.hypothesis"
	phrasePath        = "speech.phrase"
	speechConfigPath  = "speech.config"
	speechContextPath = "speech.context"
	startDetectedPath = "speech.startdetected"
	turnEndPath       = "turn.end"
	turnStartPath     = "turn.start"
)

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// newTextMessage builds a client text message: header lines, a blank line and
// a JSON body
func newTextMessage(path, requestID string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("Path: " + path + "\r\n")
	b.WriteString("X-RequestId: " + requestID + "\r\n")
	b.WriteString("X-Timestamp: " + timestamp() + "\r\n")
	b.WriteString("Content-Type: application/json; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes()
}

// newAudioMessage builds a client binary message: a 2-byte big-endian header
// size, the header lines and the audio payload. An empty payload signals the
// end of the audio stream.
func newAudioMessage(requestID string, payload []byte) []byte {
	var h bytes.Buffer
	h.WriteString("Path: " + audioPath + "\r\n")
	h.WriteString("X-RequestId: " + requestID + "\r\n")
	h.WriteString("X-Timestamp: " + timestamp() + "\r\n")
	h.WriteString("Content-Type: audio/x-wav\r\n")

	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, uint16(h.Len()))
	b.Write(h.Bytes())
	b.Write(payload)
	return b.Bytes()
}

// parseServerMessage splits a server text message into its path and body
func parseServerMessage(data []byte) (path string, body []byte, err error) {
	// Split headers and body
	idx := bytes.Index(data, []byte("\r\n\r\n"))
	if idx == -1 {
		err = errors.New("azure: no header delimiter in server message")
		return
	}
	body = data[idx+4:]

	// Look for the path header
	for _, l := range strings.Split(string(data[:idx]), "\r\n") {
		ps := strings.SplitN(l, ":", 2)
		if len(ps) == 2 && strings.EqualFold(strings.TrimSpace(ps[0]), "Path") {
			path = strings.ToLower(strings.TrimSpace(ps[1]))
			return
		}
	}
	err = errors.New("azure: no path header in server message")
	return
}

// wavHeader builds a RIFF header declaring the PCM payload pushed to the
// service
func wavHeader(dataSize, sampleRate, numChannels int) []byte {
	blockAlign := numChannels * wireBitDepth / 8
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataSize))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(numChannels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(wireBitDepth))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataSize))
	return b.Bytes()
}

// encodeSamples converts samples to 16-bit little-endian PCM bytes
func encodeSamples(samples []int, bitDepth int) (bs []byte, err error) {
	bs = make([]byte, 0, len(samples)*wireBitDepth/8)
	for _, s := range samples {
		// Convert bit depth
		if s, err = astikit.ConvertPCMBitDepth(s, bitDepth, wireBitDepth); err != nil {
			err = errors.Wrap(err, "azure: converting bit depth failed")
			return
		}

		// Append little-endian bytes
		for idx := 0; idx < wireBitDepth/8; idx++ {
			bs = append(bs, byte(s>>uint(idx*8)&0xff))
		}
	}
	return
}

func newRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
