package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"
)

type partInfo struct {
	name, filename, contentType, data string
}

func readParts(t *testing.T, r io.Reader, contentType string) []partInfo {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}
	mr := multipart.NewReader(r, params["boundary"])
	var parts []partInfo
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts = append(parts, partInfo{
			name:        part.FormName(),
			filename:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
	return parts
}

func TestMultipartBody_FieldsSorted(t *testing.T) {
	mp := &MultipartBody{Fields: map[string]string{"model": "m", "language": "en"}}
	r, ct, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, r, ct)
	if len(parts) != 2 || parts[0].name != "language" || parts[1].name != "model" {
		t.Errorf("unexpected parts %+v", parts)
	}
}

func TestMultipartBody_FileFromReader(t *testing.T) {
	mp := &MultipartBody{
		Fields: map[string]string{"model": "FunAudioLLM/SenseVoiceSmall"},
		Files: []FileField{{
			FieldName:   "file",
			FileName:    "clip.wav",
			ContentType: "audio/wav",
			Reader:      strings.NewReader("RIFF...."),
		}},
	}
	r, ct, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := readParts(t, r, ct)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %+v", parts)
	}

	model, file := parts[0], parts[1]
	if model.name != "model" || model.filename != "" || model.data != "FunAudioLLM/SenseVoiceSmall" {
		t.Errorf("unexpected model part %+v", model)
	}
	if file.name != "file" || file.filename != "clip.wav" || file.contentType != "audio/wav" || file.data != "RIFF...." {
		t.Errorf("unexpected file part %+v", file)
	}
}

func TestMultipartBody_FileFromDataDefaultType(t *testing.T) {
	mp := &MultipartBody{Files: []FileField{{FieldName: "file", FileName: "a.bin", Data: []byte{1, 2, 3}}}}
	r, ct, err := mp.encode()
	if err != nil {
		t.Fatal(err)
	}
	parts := readParts(t, r, ct)
	if len(parts) != 1 || parts[0].contentType != "application/octet-stream" || parts[0].data != "\x01\x02\x03" {
		t.Errorf("unexpected parts %+v", parts)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestMultipartBody_ReaderError(t *testing.T) {
	mp := &MultipartBody{Files: []FileField{{FieldName: "file", FileName: "a.wav", Reader: failingReader{}}}}
	if _, _, err := mp.encode(); err == nil {
		t.Fatal("expected reader error to surface")
	}
}

func TestEscapeQuotes(t *testing.T) {
	if got := escapeQuotes(`a"b\c`); got != `a\"b\\c` {
		t.Errorf("unexpected %q", got)
	}
}

func TestEncodeBody(t *testing.T) {
	r, ct, err := encodeBody(map[string]any{"model": "x"})
	if err != nil || ct != "application/json" {
		t.Fatalf("unexpected %q, %v", ct, err)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if buf.String() != `{"model":"x"}` {
		t.Errorf("unexpected JSON %q", buf.String())
	}

	if _, ct, _ := encodeBody("plain"); ct != "text/plain" {
		t.Errorf("unexpected string content type %q", ct)
	}
	if r, _, _ := encodeBody(nil); r != nil {
		t.Error("expected nil reader for nil body")
	}
	if _, _, err := encodeBody(make(chan int)); err == nil {
		t.Error("expected JSON encode error")
	}
}
