package tabular

import (
	"context"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/gea-gov/gea/pkg/domain/types"
	"github.com/gea-gov/gea/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const gcsScheme = "gs://"

// IsObjectURL reports whether src names a Cloud Storage object rather than a local file
func IsObjectURL(src string) bool {
	return strings.HasPrefix(src, gcsScheme)
}

func parseObjectURL(raw string) (bucket, object string, err error) {
	if !IsObjectURL(raw) {
		return "", "", goerr.Wrap(ErrInvalidObjectURL, "missing gs:// scheme", goerr.V("url", raw))
	}
	bucket, object, _ = strings.Cut(strings.TrimPrefix(raw, gcsScheme), "/")
	if bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", goerr.Wrap(ErrInvalidObjectURL, "object url needs a bucket and an object name", goerr.V("url", raw))
	}
	return bucket, object, nil
}

func readObject(ctx context.Context, raw string, layout types.ImportLayout, opts ...Option) ([]model.ImportRow, error) {
	bucket, object, err := parseObjectURL(raw)
	if err != nil {
		return nil, err
	}
	format, err := FormatOf(object)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	defer safe.Close(ctx, client)

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open spreadsheet object",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}
	defer safe.Close(ctx, r)

	return Read(r, format, layout, opts...)
}
