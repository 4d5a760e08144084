package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/lloyd/blobstore"
	minioblob "github.com/hupe1980/lloyd/blobstore/minio"
	s3blob "github.com/hupe1980/lloyd/blobstore/s3"
	"github.com/hupe1980/lloyd/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openStore returns nil for the "none" store.
func openStore(ctx context.Context, out config.OutputConfig) (blobstore.Store, error) {
	switch out.Store {
	case "none":
		return nil, nil
	case "local":
		return blobstore.NewLocalStore(out.Dir), nil
	case "s3":
		var opts []func(*awsconfig.LoadOptions) error
		if out.Region != "" {
			opts = append(opts, awsconfig.WithRegion(out.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3blob.NewStore(awss3.NewFromConfig(awsCfg), out.Bucket, out.Prefix), nil
	case "minio":
		client, err := minio.New(out.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(out.MinIO.AccessKey, out.MinIO.SecretKey, ""),
			Secure: out.MinIO.UseSSL,
			Region: out.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, out.Bucket, out.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store %q", out.Store)
	}
}
