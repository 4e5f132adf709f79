package filestore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credverify/pkg/domain"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func testDoc(kind Kind, name string) Document {
	return Document{
		OwnerID:     id.OwnerID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
		Kind:        kind,
		FileName:    name,
		ContentType: "application/pdf",
		Size:        5,
		Body:        strings.NewReader("%PDF-"),
	}
}

func TestS3Upload(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3(fake, "docs", "verifications/")

	h, err := store.Upload(context.Background(), testDoc(KindCertificate, "degree.pdf"))
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	put := fake.puts[0]
	assert.Equal(t, "docs", aws.ToString(put.Bucket))
	assert.Equal(t, string(h), aws.ToString(put.Key))
	assert.True(t, strings.HasPrefix(string(h), "verifications/owners/11111111-1111-1111-1111-111111111111/certificate/"))
	assert.True(t, strings.HasSuffix(string(h), "-degree.pdf"))
	assert.Equal(t, int64(5), aws.ToInt64(put.ContentLength))
	assert.Equal(t, "certificate", put.Metadata["kind"])
}

func TestS3UploadStripsPathFromFileName(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3(fake, "docs", "")

	h, err := store.Upload(context.Background(), testDoc(KindConsent, "..\\..\\etc/passwd"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(h), "-passwd"))
	assert.NotContains(t, string(h), "..")
}

func TestS3UploadError(t *testing.T) {
	store := NewS3(&fakeS3{putErr: errors.New("access denied")}, "docs", "")
	_, err := store.Upload(context.Background(), testDoc(KindConsent, "consent.pdf"))
	assert.ErrorContains(t, err, "access denied")
}

func TestS3Delete(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3(fake, "docs", "")
	require.NoError(t, store.Delete(context.Background(), Handle("a/b")))
	assert.Equal(t, []string{"a/b"}, fake.deletes)
}

func TestInMemory(t *testing.T) {
	store := NewInMemory()
	h, err := store.Upload(context.Background(), testDoc(KindCertificate, "degree.pdf"))
	require.NoError(t, err)

	data, ok := store.Get(h)
	require.True(t, ok)
	assert.Equal(t, "%PDF-", string(data))

	require.NoError(t, store.Delete(context.Background(), h))
	require.NoError(t, store.Delete(context.Background(), h))
	assert.Zero(t, store.Len())
}
