package inference

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime/multipart"
)

// Image is the raw input handed to the transport layer. It is immutable for
// the duration of a submission.
type Image struct {
	Bytes    []byte
	MimeType string
	FileName string
}

func (img Image) SizeBytes() int {
	return len(img.Bytes)
}

// PayloadEncoding names one transport representation of an image.
type PayloadEncoding string

const (
	// EncodingMultipart is a multipart/form-data body with a JSON descriptor
	// part and the raw file part.
	EncodingMultipart PayloadEncoding = "multipart"
	// EncodingBase64JSON is a JSON envelope embedding the file as a base64
	// string.
	EncodingBase64JSON PayloadEncoding = "base64-json"
	// EncodingDataURL is a data: URL string carrying the base64 image.
	EncodingDataURL PayloadEncoding = "data-url"
)

// EncodedPayload is a request body ready to be sent, paired with its content
// type.
type EncodedPayload struct {
	ContentType string
	Body        []byte
}

type fileDescriptor struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
	Data     string `json:"data"`
}

// Encode turns an image into the requested transport representation. It does
// no I/O and fails only on an encoding it does not know.
func Encode(img Image, encoding PayloadEncoding) (EncodedPayload, error) {
	switch encoding {
	case EncodingMultipart:
		return encodeMultipart(img)
	case EncodingBase64JSON:
		return encodeBase64JSON(img)
	case EncodingDataURL:
		return EncodedPayload{
			ContentType: "text/plain",
			Body:        []byte(DataURL(img)),
		}, nil
	default:
		return EncodedPayload{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// DataURL renders the image as a data: URL string.
func DataURL(img Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Bytes))
}

func encodeMultipart(img Image) (EncodedPayload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	descriptor, err := json.Marshal(map[string]interface{}{
		"name":      img.FileName,
		"mime_type": img.MimeType,
		"size":      img.SizeBytes(),
	})
	if err != nil {
		return EncodedPayload{}, err
	}
	if err := writer.WriteField("data", string(descriptor)); err != nil {
		return EncodedPayload{}, err
	}

	part, err := writer.CreateFormFile("file", img.FileName)
	if err != nil {
		return EncodedPayload{}, err
	}
	if _, err := part.Write(img.Bytes); err != nil {
		return EncodedPayload{}, err
	}
	if err := writer.Close(); err != nil {
		return EncodedPayload{}, err
	}

	return EncodedPayload{
		ContentType: writer.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func encodeBase64JSON(img Image) (EncodedPayload, error) {
	body, err := json.Marshal(fileDescriptor{
		Name:     img.FileName,
		MimeType: img.MimeType,
		Size:     img.SizeBytes(),
		Data:     base64.StdEncoding.EncodeToString(img.Bytes),
	})
	if err != nil {
		return EncodedPayload{}, err
	}

	return EncodedPayload{
		ContentType: "application/json",
		Body:        body,
	}, nil
}
