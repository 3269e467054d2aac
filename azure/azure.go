package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/asticode/go-asticlip"
	"github.com/asticode/go-astilog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Audio is pushed in chunks of this size
const audioChunkSize = 3200

// Options represents recognizer options
type Options struct {
	Key      string   `toml:"key"`
	Language string   `toml:"language"`
	Phrases  []string `toml:"-"` // Recognition hints, usually the canonical keyword set
	Region   string   `toml:"region"`
}

// Recognizer sends audio to the Azure speech service over its websocket
// protocol and collects the recognized phrase events. It implements the
// asticlip.Recognizer interface.
type Recognizer struct {
	d *websocket.Dialer
	o Options
}

// New creates a new recognizer
func New(o Options) *Recognizer {
	return &Recognizer{
		d: websocket.DefaultDialer,
		o: o,
	}
}

// phrase represents a speech.phrase server message
type phrase struct {
	DisplayText       string `json:"DisplayText"`
	Duration          int64  `json:"Duration"`
	Offset            int64  `json:"Offset"`
	RecognitionStatus string `json:"RecognitionStatus"`
}

// Recognize pushes the samples to the service and blocks until the service
// signals the end of the turn or the context expires. Native 100ns ticks are
// converted to seconds. On context expiry the events collected so far are
// returned, unless none arrived at all, in which case an error is returned.
func (r *Recognizer) Recognize(ctx context.Context, samples []int, bitDepth, numChannels, sampleRate int) (es []asticlip.Event, err error) {
	// Dial
	c, err := r.dial(ctx)
	if err != nil {
		err = errors.Wrap(err, "azure: dialing failed")
		return
	}
	defer c.Close()

	// Make sure a context cancellation unblocks the read loop
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	// Send configuration and audio
	requestID := newRequestID()
	if err = r.sendConfig(c, requestID); err != nil {
		err = errors.Wrap(err, "azure: sending configuration failed")
		return
	}
	if err = r.sendAudio(c, requestID, samples, bitDepth, numChannels, sampleRate); err != nil {
		err = errors.Wrap(err, "azure: sending audio failed")
		return
	}

	// Collect events until the turn ends
	if es, err = r.readEvents(ctx, c); err != nil {
		err = errors.Wrap(err, "azure: reading events failed")
		return
	}
	return
}

func (r *Recognizer) dial(ctx context.Context) (c *websocket.Conn, err error) {
	// Build url
	u := fmt.Sprintf("wss://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1?language=%s&format=simple", r.o.Region, url.QueryEscape(r.o.Language))

	// Build headers
	h := http.Header{}
	h.Set("Ocp-Apim-Subscription-Key", r.o.Key)
	h.Set("X-ConnectionId", uuid.New().String())

	// Dial
	var resp *http.Response
	if c, resp, err = r.d.DialContext(ctx, u, h); err != nil {
		if resp != nil {
			b, _ := ioutil.ReadAll(resp.Body)
			err = errors.Wrapf(err, "azure: dialing %s failed: status is %s, body is %s", u, resp.Status, b)
			return
		}
		err = errors.Wrapf(err, "azure: dialing %s failed", u)
		return
	}
	return
}

func (r *Recognizer) sendConfig(c *websocket.Conn, requestID string) (err error) {
	// Marshal speech config
	b, err := json.Marshal(map[string]interface{}{
		"context": map[string]interface{}{
			"system": map[string]interface{}{
				"name":    "go-asticlip",
				"version": "1.0.0",
			},
			"os": map[string]interface{}{
				"platform": runtime.GOOS,
				"name":     runtime.GOOS,
				"version":  "unknown",
			},
		},
	})
	if err != nil {
		err = errors.Wrap(err, "azure: marshaling speech config failed")
		return
	}

	// Send speech config
	if err = c.WriteMessage(websocket.TextMessage, newTextMessage(speechConfigPath, requestID, b)); err != nil {
		err = errors.Wrap(err, "azure: writing speech config failed")
		return
	}

	// No phrase hints
	if len(r.o.Phrases) == 0 {
		return
	}

	// Marshal speech context. Phrase hints bias recognition toward the
	// expected vocabulary.
	var items []map[string]interface{}
	for _, p := range r.o.Phrases {
		items = append(items, map[string]interface{}{"text": p})
	}
	if b, err = json.Marshal(map[string]interface{}{
		"dgi": map[string]interface{}{
			"groups": []map[string]interface{}{{
				"type":  "Generic",
				"items": items,
			}},
		},
	}); err != nil {
		err = errors.Wrap(err, "azure: marshaling speech context failed")
		return
	}

	// Send speech context
	if err = c.WriteMessage(websocket.TextMessage, newTextMessage(speechContextPath, requestID, b)); err != nil {
		err = errors.Wrap(err, "azure: writing speech context failed")
		return
	}
	return
}

func (r *Recognizer) sendAudio(c *websocket.Conn, requestID string, samples []int, bitDepth, numChannels, sampleRate int) (err error) {
	// Encode samples
	var bs []byte
	if bs, err = encodeSamples(samples, bitDepth); err != nil {
		err = errors.Wrap(err, "azure: encoding samples failed")
		return
	}

	// The first chunk carries the riff header
	if err = c.WriteMessage(websocket.BinaryMessage, newAudioMessage(requestID, wavHeader(len(bs), sampleRate, numChannels))); err != nil {
		err = errors.Wrap(err, "azure: writing riff header failed")
		return
	}

	// Push chunks
	for len(bs) > 0 {
		n := audioChunkSize
		if n > len(bs) {
			n = len(bs)
		}
		if err = c.WriteMessage(websocket.BinaryMessage, newAudioMessage(requestID, bs[:n])); err != nil {
			err = errors.Wrap(err, "azure: writing audio chunk failed")
			return
		}
		bs = bs[n:]
	}

	// An empty chunk signals the end of the stream
	if err = c.WriteMessage(websocket.BinaryMessage, newAudioMessage(requestID, nil)); err != nil {
		err = errors.Wrap(err, "azure: writing end of stream failed")
		return
	}
	return
}

func (r *Recognizer) readEvents(ctx context.Context, c *websocket.Conn) (es []asticlip.Event, err error) {
	for {
		// Read message
		t, b, errRead := c.ReadMessage()
		if errRead != nil {
			// The wait budget elapsed before the turn ended: return whatever
			// was collected, unless nothing arrived at all
			if ctx.Err() != nil || isTimeout(errRead) {
				if len(es) == 0 {
					err = errors.Wrap(errRead, "azure: no event arrived before the wait budget elapsed")
					return
				}
				astilog.Warnf("azure: wait budget elapsed, returning %d collected events", len(es))
				err = nil
				return
			}
			err = errors.Wrap(errRead, "azure: reading message failed")
			return
		}

		// Only text messages carry events
		if t != websocket.TextMessage {
			continue
		}

		// Parse message
		path, body, errParse := parseServerMessage(b)
		if errParse != nil {
			astilog.Debug(errors.Wrap(errParse, "azure: parsing server message failed"))
			continue
		}

		// Handle message
		switch path {
		case phrasePath:
			// Unmarshal phrase
			var p phrase
			if errUnmarshal := json.Unmarshal(body, &p); errUnmarshal != nil {
				astilog.Debug(errors.Wrap(errUnmarshal, "azure: unmarshaling phrase failed"))
				continue
			}

			// Only successful recognitions yield events
			if p.RecognitionStatus != "Success" || p.DisplayText == "" {
				continue
			}

			// Append event
			es = append(es, asticlip.Event{
				Duration: float64(p.Duration) / ticksPerSecond,
				Offset:   float64(p.Offset) / ticksPerSecond,
				Text:     strings.ToLower(strings.TrimSpace(p.DisplayText)),
			})
		case turnEndPath:
			// The service reported completion
			return
		case hypothesisPath, startDetectedPath, endDetectedPath, turnStartPath:
			// Interim events, nothing to do
		}
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
