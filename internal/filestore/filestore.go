// Package filestore uploads and deletes applicant documents.
package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	id "credverify/pkg/domain"
)

type Kind string

const (
	KindCertificate Kind = "certificate"
	KindConsent     Kind = "consent"
)

// Handle identifies a stored document. It is opaque to callers.
type Handle string

func (h Handle) String() string { return string(h) }

// Document is one uploaded file. Body is read once by Upload.
type Document struct {
	OwnerID     id.OwnerID
	Kind        Kind
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store is the upload/delete contract used by verification creation.
type Store interface {
	Upload(ctx context.Context, doc Document) (Handle, error)
	Delete(ctx context.Context, handle Handle) error
}

// objectKey builds owners/<owner>/<kind>/<random>-<file>.
func objectKey(prefix string, doc Document) string {
	name := path.Base(strings.ReplaceAll(doc.FileName, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		name = "document"
	}
	key := fmt.Sprintf("owners/%s/%s/%s-%s", doc.OwnerID, doc.Kind, uuid.NewString(), name)
	if prefix != "" {
		key = strings.TrimSuffix(prefix, "/") + "/" + key
	}
	return key
}
