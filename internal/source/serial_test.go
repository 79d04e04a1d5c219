package source

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestPopPayloadFrame(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		frame string
		rest  string
		ok    bool
	}{
		{"line", "ABC123\r\nnext", "ABC123", "\nnext", true},
		{"incomplete line", "ABC", "", "ABC", false},
		{"json one line", `{"a":1}{"b":2}`, `{"a":1}`, `{"b":2}`, true},
		{"json multi line", "{\n  \"drawer_id\": \"DRW_001\"\n}\r\n", "{\n  \"drawer_id\": \"DRW_001\"\n}", "\r\n", true},
		{"json incomplete", "{\n  \"a\": {\"b\": 1}\n", "", "{\n  \"a\": {\"b\": 1}\n", false},
		{"brace inside string", `{"note":"a } b"}`, `{"note":"a } b"}`, "", true},
		{"escaped quote", `{"note":"say \"}\""}x`, `{"note":"say \"}\""}`, "x", true},
		{"leading noise", "\r\n\x00{\"a\":1}", `{"a":1}`, "", true},
		{"only whitespace", "\r\n", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, rest, ok := popPayloadFrame(tt.in)
			if ok != tt.ok || frame != tt.frame || rest != tt.rest {
				t.Errorf("got (%q, %q, %v), want (%q, %q, %v)", frame, rest, ok, tt.frame, tt.rest, tt.ok)
			}
		})
	}
}

// chunkReader returns one chunk per Read call
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func TestStreamFramesAcrossReads(t *testing.T) {
	r := &chunkReader{chunks: []string{
		"{\n  \"drawer_id\": \"DRW_001\",\n",
		"  \"flight_number\": \"LAK345\"\n}\r\n",
		"PLAIN-CODE\r",
		"\n",
	}}
	out := make(chan string, 4)

	err := StreamFrames(context.Background(), r, out)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want EOF", err)
	}
	close(out)

	var got []string
	for f := range out {
		got = append(got, f)
	}
	if len(got) != 2 {
		t.Fatalf("frames = %q", got)
	}
	if got[0] != "{\n  \"drawer_id\": \"DRW_001\",\n  \"flight_number\": \"LAK345\"\n}" {
		t.Errorf("json frame = %q", got[0])
	}
	if got[1] != "PLAIN-CODE" {
		t.Errorf("line frame = %q", got[1])
	}
}

func TestAppendRawKeepsTail(t *testing.T) {
	if got := appendRaw("abc", "def", 4); got != "cdef" {
		t.Errorf("appendRaw = %q", got)
	}
}
