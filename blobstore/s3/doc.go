// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "runs/")
//	w := results.NewWriter(store)
//
// Uploads go through the feature/s3/manager uploader, so large result files
// are sent as multipart uploads.
package s3
