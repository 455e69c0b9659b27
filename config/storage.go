package config

import (
	"context"
	"log"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// InitObjectStorage connects to the MinIO endpoint that owns attachment
// bytes and makes sure the bucket exists. Returns the client and bucket
// name; fatal on misconfiguration since attachments cannot work without it.
func InitObjectStorage() (*minio.Client, string) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	bucket := os.Getenv("MINIO_BUCKET")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	if endpoint == "" {
		log.Fatal("MINIO_ENDPOINT is not configured")
	}
	if bucket == "" {
		bucket = "internship-attachments"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatal("Failed to connect to object storage:", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		log.Fatal("Failed to check storage bucket:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("Failed to create storage bucket:", err)
		}
		log.Printf("Created storage bucket %s", bucket)
	}

	log.Println("Object storage connected successfully")
	return client, bucket
}
