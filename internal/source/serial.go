package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tarm/serial"
	"go.uber.org/zap"
)

// maxPending bounds buffered bytes when a reader never terminates a frame
const maxPending = 16 * 1024

// Serial reads payloads from a handheld QR reader on a serial/USB-CDC port.
// The port is reopened after errors until the context ends.
type Serial struct {
	Device string
	Baud   int
	log    *zap.Logger
}

// NewSerial creates a serial source
func NewSerial(device string, baud int, log *zap.Logger) *Serial {
	if baud <= 0 {
		baud = 9600
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Serial{Device: strings.TrimSpace(device), Baud: baud, log: log.With(zap.String("source", "serial"))}
}

// Name identifies the source in logs
func (s *Serial) Name() string {
	return fmt.Sprintf("serial:%s", s.Device)
}

// Run streams payloads into out until ctx is cancelled
func (s *Serial) Run(ctx context.Context, out chan<- string) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		port, err := serial.OpenPort(&serial.Config{Name: s.Device, Baud: s.Baud, ReadTimeout: 250 * time.Millisecond})
		if err != nil {
			s.log.Warn("open failed", zap.String("device", s.Device), zap.Error(err))
			if !sleepWithContext(ctx, 900*time.Millisecond) {
				return nil
			}
			continue
		}

		s.log.Info("port opened", zap.String("device", s.Device), zap.Int("baud", s.Baud))
		err = StreamFrames(ctx, port, out)
		_ = port.Close()

		if ctx.Err() != nil {
			return nil
		}
		s.log.Warn("port closed", zap.String("device", s.Device), zap.Error(err))
		if !sleepWithContext(ctx, 400*time.Millisecond) {
			return nil
		}
	}
}

// StreamFrames splits the byte stream of r into payloads and sends them to out.
// It returns the first read error.
func StreamFrames(ctx context.Context, r io.Reader, out chan<- string) error {
	buf := make([]byte, 512)
	pending := ""

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := r.Read(buf)
		if n > 0 {
			pending = appendRaw(pending, string(buf[:n]), maxPending)
			for {
				frame, rest, ok := popPayloadFrame(pending)
				if !ok {
					break
				}
				pending = rest
				select {
				case out <- frame:
				case <-ctx.Done():
					return nil
				}
			}
		}
		if err != nil {
			return err
		}
	}
}

// popPayloadFrame extracts one payload. A payload starting with '{' ends at
// its matching brace so multi-line JSON survives; anything else ends at CR/LF.
func popPayloadFrame(buf string) (frame, rest string, ok bool) {
	buf = strings.TrimLeft(buf, " \t\r\n\x00")
	if buf == "" {
		return "", "", false
	}

	if buf[0] == '{' {
		if end := matchingBrace(buf); end >= 0 {
			return buf[:end+1], buf[end+1:], true
		}
		return "", buf, false
	}

	idx := strings.IndexAny(buf, "\r\n")
	if idx < 0 {
		return "", buf, false
	}
	return strings.TrimSpace(buf[:idx]), buf[idx+1:], true
}

// matchingBrace returns the index closing the object opened at buf[0], or -1
func matchingBrace(buf string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func appendRaw(existing, chunk string, max int) string {
	combined := existing + chunk
	if len(combined) <= max {
		return combined
	}
	return combined[len(combined)-max:]
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
