// Package documents implements the content-addressed document store
// (spec.md section 4.9, C10): validating, hashing, and persisting
// submission documents to a per-property, per-type directory tree.
package documents

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxFileSize = 10 * 1024 * 1024 // 10 MiB

// DocumentType enumerates the document kinds the submission portal
// accepts (spec.md section 4.10).
type DocumentType string

const (
	DocumentTypeTitleRegister    DocumentType = "title_register"
	DocumentTypeEPC              DocumentType = "epc"
	DocumentTypeFloorPlan        DocumentType = "floor_plan"
	DocumentTypeLease            DocumentType = "lease"
	DocumentTypePlanningApproval DocumentType = "planning_approval"
	DocumentTypeOther            DocumentType = "other"
)

// RejectionCode enumerates document-store rejection reasons (spec.md
// section 7).
type RejectionCode string

const (
	RejectionUnsupportedFormat  RejectionCode = "UNSUPPORTED_FORMAT"
	RejectionFileTooLarge       RejectionCode = "FILE_TOO_LARGE"
	RejectionEmptyFile          RejectionCode = "EMPTY_FILE"
	RejectionHashMismatchOnRead RejectionCode = "HASH_MISMATCH_ON_READ"
)

// RejectionError reports why Put refused a document.
type RejectionError struct {
	Code   RejectionCode
	Reason string
}

func (e *RejectionError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Reason) }

// allowedExtensions maps an accepted file extension to the MIME types
// sniffContentType may report for it — both must agree before a document
// is accepted.
var allowedExtensions = map[string][]string{
	".pdf":  {"application/pdf"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".tiff": {"image/tiff"},
	".tif":  {"image/tiff"},
}

// Record describes one stored document (spec.md section 3,
// DocumentRecord).
type Record struct {
	DocumentID   string
	PropertyID   string
	DocumentType DocumentType
	Filename     string
	SHA256Hex    string
	SizeBytes    int
	StoredAt     time.Time
}

// Store persists documents under root/{property_id}/{document_type}/{filename},
// alongside a sidecar manifest recording sha256 and size (spec.md section
// 6.3).
type Store struct {
	root string
}

// NewStore builds a Store rooted at root. The directory is created lazily
// on first Put.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Put validates and persists bytes as a new document for propertyID. Two
// uploads with identical content always produce identical SHA256Hex;
// replacements keep the prior record on disk rather than overwriting it,
// since the logbook (internal/logbook) is responsible for which document
// version is "current". Put fails if a file with the same filename already
// exists for that property and document type.
func (s *Store) Put(propertyID string, docType DocumentType, filename string, content []byte) (Record, error) {
	if len(content) == 0 {
		return Record{}, &RejectionError{Code: RejectionEmptyFile, Reason: "document content is empty"}
	}
	if len(content) > maxFileSize {
		return Record{}, &RejectionError{Code: RejectionFileTooLarge, Reason: fmt.Sprintf("%d bytes exceeds %d byte limit", len(content), maxFileSize)}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowedMIMEs, extOK := allowedExtensions[ext]
	if !extOK {
		return Record{}, &RejectionError{Code: RejectionUnsupportedFormat, Reason: fmt.Sprintf("extension %q is not accepted", ext)}
	}

	sniffed := sniffContentType(content)
	if !mimeAllowed(sniffed, allowedMIMEs) {
		return Record{}, &RejectionError{Code: RejectionUnsupportedFormat, Reason: fmt.Sprintf("sniffed content type %q does not match extension %q", sniffed, ext)}
	}

	sum := sha256.Sum256(content)
	hexSum := hex.EncodeToString(sum[:])

	dir := filepath.Join(s.root, propertyID, string(docType))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("documents: mkdir: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("documents: create: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return Record{}, fmt.Errorf("documents: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return Record{}, fmt.Errorf("documents: write: %w", err)
	}

	record := Record{
		DocumentID:   "doc-" + uuid.New().String(),
		PropertyID:   propertyID,
		DocumentType: docType,
		Filename:     filename,
		SHA256Hex:    hexSum,
		SizeBytes:    len(content),
		StoredAt:     time.Now().UTC(),
	}

	if err := writeManifest(path, record); err != nil {
		return Record{}, err
	}

	return record, nil
}

// Get reads back the bytes for record, verifying the content still
// matches the recorded SHA256 digest.
func (s *Store) Get(record Record) ([]byte, error) {
	path := filepath.Join(s.root, record.PropertyID, string(record.DocumentType), record.Filename)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("documents: read: %w", err)
	}

	sum := sha256.Sum256(content)
	hexSum := hex.EncodeToString(sum[:])
	if hexSum != record.SHA256Hex {
		return nil, &RejectionError{Code: RejectionHashMismatchOnRead, Reason: "stored content no longer matches recorded sha256"}
	}

	return content, nil
}

// sniffContentType detects content's MIME type, recognising TIFF by its
// byte-order magic number first — http.DetectContentType's sniff table
// has no TIFF signature, so every real TIFF would otherwise fail the MIME
// check regardless of its accepted extension.
func sniffContentType(content []byte) string {
	if isTIFF(content) {
		return "image/tiff"
	}
	return http.DetectContentType(content)
}

// isTIFF reports whether content starts with the little-endian ("II*\0")
// or big-endian ("MM\0*") TIFF byte-order marker and magic number.
func isTIFF(content []byte) bool {
	if len(content) < 4 {
		return false
	}
	littleEndian := content[0] == 'I' && content[1] == 'I' && content[2] == 0x2A && content[3] == 0x00
	bigEndian := content[0] == 'M' && content[1] == 'M' && content[2] == 0x00 && content[3] == 0x2A
	return littleEndian || bigEndian
}

func mimeAllowed(sniffed string, allowed []string) bool {
	for _, a := range allowed {
		if sniffed == a {
			return true
		}
	}
	return false
}
