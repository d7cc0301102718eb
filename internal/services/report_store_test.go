package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = params
	s.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ReportStore_Save(t *testing.T) {
	putter := &stubPutter{}
	store := NewReportStore(putter, "reports-bucket").(*s3ReportStore)
	store.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }

	key, err := store.Save(context.Background(), "jane.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "reports/2026/03/04/jane.pdf_Report.pdf", key)
	assert.Equal(t, "reports-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "%PDF-1.4", string(putter.body))

	_, err = NewReportStore(&stubPutter{err: errors.New("denied")}, "b").Save(context.Background(), "x.pdf", nil)
	assert.Error(t, err)
}
