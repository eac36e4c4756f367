// Package twilio exposes a phone call as the controller's audio source: an
// HTTP server answers a Twilio voice webhook with TwiML that connects a
// Media Streams websocket, and the inbound mulaw stream is sliced into
// speech segments by the energy gate.
package twilio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	twilioclient "github.com/twilio/twilio-go/client"

	"github.com/harunnryd/catat/pkg/adapters/source"
	"github.com/harunnryd/catat/pkg/audio"
	"github.com/harunnryd/catat/pkg/errorsx"
	"github.com/harunnryd/catat/pkg/logging"
)

type Config struct {
	ServerAddr     string   `mapstructure:"server_addr"`
	PublicURL      string   `mapstructure:"public_url"`
	AccountSID     string   `mapstructure:"account_sid"`
	AuthToken      string   `mapstructure:"auth_token"`
	VoicePath      string   `mapstructure:"voice_path"`
	WebsocketPath  string   `mapstructure:"ws_path"`
	VoiceGreeting  string   `mapstructure:"voice_greeting"`
	AllowAnyOrigin bool     `mapstructure:"allow_any_origin"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// DialTo places an outbound call on Open so the operator's phone becomes
	// the microphone. Empty means wait for an inbound call.
	DialTo   string `mapstructure:"dial_to"`
	DialFrom string `mapstructure:"dial_from"`
}

func (c Config) withDefaults() Config {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.VoicePath == "" {
		c.VoicePath = "/voice"
	}
	if c.WebsocketPath == "" {
		c.WebsocketPath = "/ws"
	}
	if !c.AllowAnyOrigin && len(c.AllowedOrigins) == 0 {
		c.AllowAnyOrigin = true
	}
	return c
}

// Source implements source.Source over a Twilio media stream. One call at a
// time: a second stream replaces the first.
type Source struct {
	cfg       Config
	listenCfg source.Config
	logger    *slog.Logger
	validator twilioclient.RequestValidator

	server   *http.Server
	upgrader websocket.Upgrader
	dialer   *Dialer

	chunks chan []byte
	seg    *audio.Segmenter

	mu        sync.Mutex
	callSID   string
	streamSID string
	traceID   string
	dialedSID string
	ended     atomic.Bool
}

func New(cfg Config, listenCfg source.Config) *Source {
	cfg = cfg.withDefaults()
	listenCfg = listenCfg.WithDefaults()
	s := &Source{
		cfg:       cfg,
		listenCfg: listenCfg,
		logger:    logging.NewComponentLogger(slog.Default(), "twilio_source"),
		validator: twilioclient.NewRequestValidator(cfg.AuthToken),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		chunks: make(chan []byte, 512),
		seg: audio.NewSegmenter(audio.SegmenterConfig{
			Gate:       audio.NewGate(listenCfg.EnergyThreshold, listenCfg.DynamicEnergy),
			Encoding:   audio.EncodingMulaw,
			SampleRate: 8000,
			Channels:   1,
			MaxPhrase:  listenCfg.MaxPhrase,
		}),
		dialer: NewDialer(cfg),
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

func (s *Source) Name() string { return "twilio_media_stream" }

func (s *Source) Open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.VoicePath, s.handleVoice)
	mux.Handle(s.cfg.WebsocketPath, s)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.server = &http.Server{
		Addr:              s.cfg.ServerAddr,
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("source_server_error", "error", err.Error())
			s.ended.Store(true)
		}
	}()
	s.logger.Info("source_listening",
		"addr", s.cfg.ServerAddr,
		"voice_path", s.cfg.VoicePath,
		"energy_threshold", s.listenCfg.EnergyThreshold)

	if strings.TrimSpace(s.cfg.DialTo) != "" {
		sid, err := s.dialer.Dial(ctx, s.cfg.DialTo, s.cfg.DialFrom, "")
		if err != nil {
			return errorsx.Wrap(err, errorsx.ReasonDialFailed)
		}
		s.mu.Lock()
		s.dialedSID = sid
		s.mu.Unlock()
		s.logger.Info("outbound_call_placed", "call_sid", sid, "to", s.cfg.DialTo)
	}
	return nil
}

func (s *Source) Close() error {
	s.ended.Store(true)
	s.mu.Lock()
	dialed := s.dialedSID
	s.dialedSID = ""
	s.mu.Unlock()
	if dialed != "" {
		if err := s.dialer.Hangup(dialed); err != nil {
			s.logger.Error("hangup_failed", "call_sid", dialed, "error", err.Error())
		}
	}
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Listen waits for the next speech segment from the active media stream.
// Before speech onset the silence timeout applies; once a phrase is open the
// segmenter's hang time and phrase cap close it.
func (s *Source) Listen(ctx context.Context) (audio.Segment, error) {
	timer := time.NewTimer(s.listenCfg.SilenceTimeout)
	defer timer.Stop()
	for {
		if s.ended.Load() && len(s.chunks) == 0 {
			if seg, ok := s.seg.Flush(); ok {
				return seg, nil
			}
			return audio.Segment{}, errorsx.New("media stream ended", errorsx.ReasonDeviceFailure)
		}
		select {
		case <-ctx.Done():
			return audio.Segment{}, errorsx.Wrap(ctx.Err(), errorsx.ReasonInterrupted)
		case <-timer.C:
			if s.seg.InSpeech() {
				timer.Reset(s.listenCfg.SilenceTimeout)
				continue
			}
			return audio.Segment{}, errorsx.New("no speech before timeout", errorsx.ReasonListenTimeout)
		case chunk := <-s.chunks:
			if seg, done := s.seg.Push(chunk); done {
				return seg, nil
			}
		}
	}
}

// ServeHTTP upgrades the media-stream websocket and feeds mulaw chunks into
// the segmenter's channel.
func (s *Source) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var evt streamEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			continue
		}
		switch evt.Event {
		case "start":
			if evt.Start == nil {
				continue
			}
			s.mu.Lock()
			s.callSID = evt.Start.CallSID
			s.streamSID = evt.Start.StreamSID
			s.traceID = uuid.NewString()
			s.mu.Unlock()
			s.logger.Info("stream_started",
				"call_sid", evt.Start.CallSID,
				"stream_sid", evt.Start.StreamSID,
				"trace_id", s.traceID)
		case "media":
			if evt.Media == nil {
				continue
			}
			payload, err := base64.StdEncoding.DecodeString(evt.Media.Payload)
			if err != nil {
				continue
			}
			select {
			case s.chunks <- payload:
			default:
				// Capture is paced by recognition; drop rather than stall the
				// websocket reader.
			}
		case "stop":
			s.logger.Info("stream_stopped", "call_sid", s.activeCallSID())
			s.ended.Store(true)
			return
		}
	}
	s.ended.Store(true)
}

func (s *Source) handleVoice(w http.ResponseWriter, r *http.Request) {
	if !s.validRequest(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	greeting := ""
	if g := strings.TrimSpace(s.cfg.VoiceGreeting); g != "" {
		greeting = "<Say>" + g + "</Say>"
	}
	twiml := fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?><Response>%s<Connect><Stream url="%s"/></Connect></Response>`,
		greeting, s.streamURL())
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write([]byte(twiml))
}

func (s *Source) validRequest(r *http.Request) bool {
	if s.cfg.AuthToken == "" {
		return true
	}
	sig := r.Header.Get("X-Twilio-Signature")
	if sig == "" {
		return false
	}
	params := map[string]string{}
	if err := r.ParseForm(); err == nil {
		for k, vals := range r.PostForm {
			if len(vals) > 0 {
				params[k] = vals[0]
			}
		}
	}
	return s.validator.Validate(s.requestURL(r), params, sig)
}

func (s *Source) requestURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") == "" && !strings.HasPrefix(s.cfg.PublicURL, "https") {
		scheme = "http"
	}
	host := r.Host
	if s.cfg.PublicURL != "" {
		host = normalizePublicURL(s.cfg.PublicURL)
	}
	url := scheme + "://" + host + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	return url
}

func (s *Source) streamURL() string {
	host := normalizePublicURL(s.cfg.PublicURL)
	if host == "" {
		host = "localhost" + s.cfg.ServerAddr
	}
	return "wss://" + host + s.cfg.WebsocketPath
}

func (s *Source) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowAnyOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}

func (s *Source) activeCallSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callSID
}

func normalizePublicURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "wss://")
	return strings.TrimSuffix(u, "/")
}

var _ source.Source = (*Source)(nil)
