package inference

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProtocolDescriptor is a static specification of one way to talk to the
// remote inference service. Descriptors are tried strictly in list order.
type ProtocolDescriptor struct {
	ID       string          `yaml:"id" json:"id"`
	Path     string          `yaml:"path" json:"path"`
	Encoding PayloadEncoding `yaml:"encoding" json:"encoding"`
	FnIndex  *int            `yaml:"fn_index,omitempty" json:"fn_index,omitempty"`
	Defers   bool            `yaml:"defers" json:"defers"`
}

type ProtocolConfig struct {
	Protocols []ProtocolDescriptor `yaml:"protocols" json:"protocols"`
}

// LoadProtocols reads a candidate protocol list from a YAML file, falling
// back to the compiled-in defaults when no path is configured.
func LoadProtocols(path string) (ProtocolConfig, error) {
	if path == "" {
		return DefaultProtocols(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultProtocols(), err
	}

	var cfg ProtocolConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return ProtocolConfig{}, err
	}

	if len(cfg.Protocols) == 0 {
		return ProtocolConfig{}, errors.New("no inference protocols configured")
	}
	for _, p := range cfg.Protocols {
		switch p.Encoding {
		case EncodingMultipart, EncodingBase64JSON, EncodingDataURL:
		default:
			return ProtocolConfig{}, fmt.Errorf("protocol %s: %w: %q", p.ID, ErrUnsupportedEncoding, p.Encoding)
		}
	}

	return cfg, nil
}

// DefaultProtocols returns the candidate submission protocols in fallback
// order: the queued Space API first, the multipart form second, the legacy
// JSON endpoint last.
func DefaultProtocols() ProtocolConfig {
	fnIndex := 0
	return ProtocolConfig{Protocols: []ProtocolDescriptor{
		{ID: "gradio-json", Path: "/api/predict", Encoding: EncodingDataURL, FnIndex: &fnIndex, Defers: true},
		{ID: "space-multipart", Path: "/api/predict", Encoding: EncodingMultipart},
		{ID: "legacy-json", Path: "/run/predict", Encoding: EncodingBase64JSON},
	}}
}
