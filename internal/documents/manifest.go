package documents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifest is the sidecar record written alongside every stored document,
// carrying its hash and size for out-of-band integrity checks (spec.md
// section 6.3).
type manifest struct {
	SHA256Hex string `yaml:"sha256_hex"`
	SizeBytes int    `yaml:"size_bytes"`
}

func writeManifest(documentPath string, record Record) error {
	m := manifest{SHA256Hex: record.SHA256Hex, SizeBytes: record.SizeBytes}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("documents: marshal manifest: %w", err)
	}

	if err := os.WriteFile(documentPath+".manifest.yaml", data, 0o644); err != nil {
		return fmt.Errorf("documents: write manifest: %w", err)
	}
	return nil
}
