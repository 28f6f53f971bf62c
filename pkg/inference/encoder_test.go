package inference

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func testImage() Image {
	return Image{
		Bytes:    []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02},
		MimeType: "image/jpeg",
		FileName: "lesion.jpg",
	}
}

func TestEncodeDataURL(t *testing.T) {
	img := testImage()
	payload, err := Encode(img, EncodingDataURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url := string(payload.Body)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected data URL prefix: %q", url)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
	if err != nil {
		t.Fatalf("data URL payload is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, img.Bytes) {
		t.Fatal("decoded data URL does not round-trip the image bytes")
	}
}

func TestEncodeBase64JSON(t *testing.T) {
	img := testImage()
	payload, err := Encode(img, EncodingBase64JSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", payload.ContentType)
	}

	var descriptor struct {
		Name     string `json:"name"`
		MimeType string `json:"mime_type"`
		Size     int    `json:"size"`
		Data     string `json:"data"`
	}
	if err := json.Unmarshal(payload.Body, &descriptor); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if descriptor.Name != "lesion.jpg" || descriptor.MimeType != "image/jpeg" {
		t.Fatalf("unexpected descriptor: %+v", descriptor)
	}
	if descriptor.Size != len(img.Bytes) {
		t.Fatalf("expected size %d, got %d", len(img.Bytes), descriptor.Size)
	}

	decoded, err := base64.StdEncoding.DecodeString(descriptor.Data)
	if err != nil {
		t.Fatalf("embedded data is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, img.Bytes) {
		t.Fatal("embedded base64 does not round-trip the image bytes")
	}
}

func TestEncodeMultipart(t *testing.T) {
	img := testImage()
	payload, err := Encode(img, EncodingMultipart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(payload.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q: %v", payload.ContentType, err)
	}

	reader := multipart.NewReader(bytes.NewReader(payload.Body), params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart body: %v", err)
	}

	if len(form.Value["data"]) != 1 {
		t.Fatal("expected a JSON descriptor part named data")
	}
	files := form.File["file"]
	if len(files) != 1 || files[0].Filename != "lesion.jpg" {
		t.Fatalf("expected one file part named lesion.jpg, got %+v", files)
	}

	part, err := files[0].Open()
	if err != nil {
		t.Fatalf("failed to open file part: %v", err)
	}
	defer part.Close()
	content, _ := io.ReadAll(part)
	if !bytes.Equal(content, img.Bytes) {
		t.Fatal("file part does not round-trip the image bytes")
	}
}

func TestEncodeUnsupportedEncoding(t *testing.T) {
	_, err := Encode(testImage(), PayloadEncoding("protobuf"))
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
}
