package audit

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioWebhookArchive struct {
	Client     *minio.Client
	BucketName string
}

var (
	minioWebhookArchiveInstance contracts.WebhookAuditArchive
	onceMinioWebhookArchive     sync.Once
)

func NewMinioWebhookArchive(client *minio.Client, bucketName string) contracts.WebhookAuditArchive {
	onceMinioWebhookArchive.Do(func() {
		minioWebhookArchiveInstance = &minioWebhookArchive{
			Client:     client,
			BucketName: bucketName,
		}
	})
	return minioWebhookArchiveInstance
}

// ArchiveRejected stores the raw payload of a webhook that failed signature
// verification or field validation. Kept for forensics; nothing reads these
// objects on the hot path.
func (a *minioWebhookArchive) ArchiveRejected(ctx context.Context, correlationID string, rawPayload []byte) error {
	if correlationID == "" {
		correlationID = "unknown"
	}
	objectName := fmt.Sprintf(constvars.MinioRejectedWebhookObjectFormat, correlationID, time.Now().UnixNano())
	reader := bytes.NewReader(rawPayload)
	_, err := a.Client.PutObject(ctx, a.BucketName, objectName, reader, int64(len(rawPayload)), minio.PutObjectOptions{
		ContentType: constvars.MIMEApplicationJSON,
	})
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, a.BucketName)
	}
	return nil
}
