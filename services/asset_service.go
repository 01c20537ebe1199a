package services

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/wildsighthq/wildsight/config"
	apiError "github.com/wildsighthq/wildsight/errors"
)

// MaxImageSize caps uploaded evidence photos at 10 MB.
const MaxImageSize = 10 * 1024 * 1024

const thumbnailWidth = 320

var supportedImageTypes = map[string]bool{
	".png":  true,
	".jpeg": true,
	".jpg":  true,
}

// AssetStore owns the stored image bytes. The points/report core only ever
// sees the opaque ref.
type AssetStore interface {
	Store(ctx context.Context, data []byte, ext string) (string, error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// CheckSupportedImage reports whether a filename has an accepted image
// extension, returning the extension for ref generation.
func CheckSupportedImage(filename string) (bool, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageTypes[ext], ext
}

func generateAssetRef(ext string) string {
	return uuid.NewString() + ext
}

// diskAssetStore keeps full-size images and jpeg thumbnails under a local
// uploads directory.
type diskAssetStore struct {
	dir string
}

func NewDiskAssetStore(dir string) (AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload dir")
	}
	return &diskAssetStore{dir: dir}, nil
}

func (d *diskAssetStore) Store(_ context.Context, data []byte, ext string) (string, error) {
	if len(data) > MaxImageSize {
		return "", errors.Wrap(apiError.ErrBadRequest, "image exceeds the maximum allowed size")
	}
	if !supportedImageTypes[ext] {
		return "", errors.Wrap(apiError.ErrBadRequest, fmt.Sprintf("unsupported image type %q", ext))
	}

	ref := generateAssetRef(ext)
	if err := os.WriteFile(filepath.Join(d.dir, ref), data, 0o644); err != nil {
		return "", errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	if err := d.writeThumbnail(ref, data); err != nil {
		// The full-size image is the record; a missing thumbnail only
		// degrades listings.
		log.Warnf("thumbnail generation failed for %s: %v", ref, err)
	}
	return ref, nil
}

func (d *diskAssetStore) writeThumbnail(ref string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)
	out, err := os.Create(filepath.Join(d.dir, "thumb_"+strings.TrimSuffix(ref, filepath.Ext(ref))+".jpg"))
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, thumb, nil)
}

func (d *diskAssetStore) Fetch(_ context.Context, ref string) ([]byte, error) {
	// Refs are generated names; reject anything trying to escape the dir.
	if ref != filepath.Base(ref) {
		return nil, errors.Wrap(apiError.ErrBadRequest, "invalid asset ref")
	}
	data, err := os.ReadFile(filepath.Join(d.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apiError.ErrNotFound
		}
		return nil, errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	return data, nil
}

// s3AssetStore stores images in an S3 bucket under an uploads/ folder.
type s3AssetStore struct {
	client *s3.Client
	bucket string
}

func NewS3AssetStore(conf *config.Config) (AssetStore, error) {
	accessKeyID := os.Getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(conf.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	return &s3AssetStore{
		client: s3.NewFromConfig(cfg),
		bucket: conf.AWSBucket,
	}, nil
}

func (s *s3AssetStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if len(data) > MaxImageSize {
		return "", errors.Wrap(apiError.ErrBadRequest, "image exceeds the maximum allowed size")
	}
	if !supportedImageTypes[ext] {
		return "", errors.Wrap(apiError.ErrBadRequest, fmt.Sprintf("unsupported image type %q", ext))
	}

	ref := generateAssetRef(ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String("uploads/" + ref),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	return ref, nil
}

func (s *s3AssetStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String("uploads/" + ref),
	})
	if err != nil {
		return nil, errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, errors.Wrap(apiError.ErrStorageFailure, err.Error())
	}
	return buf.Bytes(), nil
}

// NewAssetStore picks the S3 backend when a bucket is configured and falls
// back to local disk otherwise.
func NewAssetStore(conf *config.Config) (AssetStore, error) {
	if conf.AWSBucket != "" {
		return NewS3AssetStore(conf)
	}
	return NewDiskAssetStore(conf.UploadDir)
}
