package twilio

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/errorsx"
)

func computeSignature(authToken, reqURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	base := reqURL
	for _, k := range keys {
		base += k + params[k]
	}
	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHandleVoiceSignatureValidation(t *testing.T) {
	cfg := Config{AuthToken: "token", PublicURL: "https://example.com", VoiceGreeting: "say something"}
	s := New(cfg, source.Config{})

	form := url.Values{}
	form.Set("CallSid", "CA123")
	body := form.Encode()

	req := httptest.NewRequest(http.MethodPost, "https://example.com/voice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	sig := computeSignature(cfg.AuthToken, s.requestURL(req), map[string]string{"CallSid": "CA123"})
	req.Header.Set("X-Twilio-Signature", sig)

	w := httptest.NewRecorder()
	s.handleVoice(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	twiml := w.Body.String()
	if !strings.Contains(twiml, "<Say>say something</Say>") {
		t.Fatalf("missing greeting in twiml: %s", twiml)
	}
	if !strings.Contains(twiml, `<Stream url="wss://example.com/ws"/>`) {
		t.Fatalf("missing stream url in twiml: %s", twiml)
	}

	reqInvalid := httptest.NewRequest(http.MethodPost, "https://example.com/voice", strings.NewReader(body))
	reqInvalid.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqInvalid.Header.Set("X-Twilio-Signature", "invalid")
	wInvalid := httptest.NewRecorder()
	s.handleVoice(wInvalid, reqInvalid)
	if wInvalid.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", wInvalid.Code)
	}
}

func mulawChunk(b byte, n int) string {
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}
	return base64.StdEncoding.EncodeToString(data)
}

func sendEvent(t *testing.T, conn *websocket.Conn, evt streamEvent) {
	t.Helper()
	raw, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestMediaStreamProducesSegments(t *testing.T) {
	s := New(Config{}, source.Config{
		EnergyThreshold: 300,
		SilenceTimeout:  2 * time.Second,
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sendEvent(t, conn, streamEvent{Event: "start", Start: &startEvent{CallSID: "CA1", StreamSID: "MZ1"}})
	// 0x00 decodes to a loud sample, 0xFF to silence; 160 bytes = 20ms.
	for i := 0; i < 15; i++ {
		sendEvent(t, conn, streamEvent{Event: "media", Media: &mediaEvent{Payload: mulawChunk(0x00, 160)}})
	}
	for i := 0; i < 40; i++ {
		sendEvent(t, conn, streamEvent{Event: "media", Media: &mediaEvent{Payload: mulawChunk(0xFF, 160)}})
	}

	seg, err := s.Listen(context.Background())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if seg.Empty() || seg.SampleRate != 8000 {
		t.Fatalf("unexpected segment: %d bytes @%dHz", len(seg.Data), seg.SampleRate)
	}
	if seg.Duration() < 200*time.Millisecond {
		t.Fatalf("segment too short: %v", seg.Duration())
	}
}

func TestListenTimesOutWithoutSpeech(t *testing.T) {
	s := New(Config{}, source.Config{
		EnergyThreshold: 300,
		SilenceTimeout:  50 * time.Millisecond,
	})
	_, err := s.Listen(context.Background())
	if !errorsx.HasReason(err, errorsx.ReasonListenTimeout) {
		t.Fatalf("expected listen_timeout, got %v", err)
	}
}

func TestStreamStopIsDeviceFailure(t *testing.T) {
	s := New(Config{}, source.Config{EnergyThreshold: 300, SilenceTimeout: time.Second})
	srv := httptest.NewServer(s)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	sendEvent(t, conn, streamEvent{Event: "start", Start: &startEvent{CallSID: "CA1", StreamSID: "MZ1"}})
	sendEvent(t, conn, streamEvent{Event: "stop", Stop: &stopEvent{CallSID: "CA1"}})

	deadline := time.Now().Add(2 * time.Second)
	for !s.ended.Load() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	_, err = s.Listen(context.Background())
	if !errorsx.HasReason(err, errorsx.ReasonDeviceFailure) {
		t.Fatalf("expected device_failure after stop, got %v", err)
	}
}

func TestListenHonoursCancellation(t *testing.T) {
	s := New(Config{}, source.Config{EnergyThreshold: 300, SilenceTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := s.Listen(ctx)
	if !errorsx.HasReason(err, errorsx.ReasonInterrupted) {
		t.Fatalf("expected interrupted, got %v", err)
	}
}
