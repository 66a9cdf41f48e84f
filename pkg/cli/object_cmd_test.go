package cli

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-kit/internal/domain"
	"catalog-kit/internal/testutil"
)

func csvStore() *testutil.MockObjectStore {
	return &testutil.MockObjectStore{
		GetFn: func(_ context.Context, bucket, key string) ([]byte, error) {
			if bucket == "b" && key == "data/points.csv" {
				return []byte("x,label\n1,a\n2,b\n3,c\n"), nil
			}
			return nil, domain.ErrNotFound("object %s/%s not found", bucket, key)
		},
	}
}

func TestObjectGet(t *testing.T) {
	t.Run("inferred_format", func(t *testing.T) {
		out := mustRun(t, testApp(t, nil, csvStore()), "object", "get", "s3://b/data/points.csv", "-o", "json")

		var got map[string][]map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got["s3://b/data/points.csv"], 3)
		assert.Equal(t, "a", got["s3://b/data/points.csv"][0]["label"])
	})

	t.Run("limit", func(t *testing.T) {
		out := mustRun(t, testApp(t, nil, csvStore()), "object", "get", "s3://b/data/points.csv", "--limit", "1")

		assert.Contains(t, out, "== s3://b/data/points.csv ==")
		assert.Contains(t, out, "LABEL")
		assert.Contains(t, out, "a")
		assert.NotContains(t, out, "c\n")
	})

	t.Run("unsupported_format", func(t *testing.T) {
		_, err := run(t, testApp(t, nil, csvStore()), "object", "get", "s3://b/data/points.csv", "--format", "tsv")
		require.Error(t, err)
		assert.Equal(t, "unsupported_format", errorKind(err))
		assert.Contains(t, err.Error(), `unsupported file format "tsv"`)
	})

	t.Run("missing_object", func(t *testing.T) {
		_, err := run(t, testApp(t, nil, csvStore()), "object", "get", "gs://b/absent.csv")
		require.Error(t, err)
		assert.Equal(t, "not_found", errorKind(err))
	})

	t.Run("bad_uri", func(t *testing.T) {
		_, err := run(t, testApp(t, nil, csvStore()), "object", "get", "ftp://b/k.csv")
		require.Error(t, err)
		assert.Equal(t, "validation", errorKind(err))
	})
}

func TestObjectGet_CredentialsSetEnv(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")

	mustRun(t, testApp(t, nil, csvStore()), "object", "get", "s3://b/data/points.csv", "--credentials", writeCredentials(t))

	assert.Equal(t, "AKIAEXAMPLE", os.Getenv("AWS_ACCESS_KEY_ID"))
	assert.Equal(t, "s3cr3t", os.Getenv("AWS_SECRET_ACCESS_KEY"))
}

func TestObjectURL(t *testing.T) {
	out := mustRun(t, testApp(t, nil, nil), "object", "url", "site-bucket", "/index.html")
	assert.Equal(t, "s3://site-bucket.s3-website-ap-southeast-2.amazonaws.com/index.html\n", out)

	out = mustRun(t, testApp(t, nil, nil), "object", "url", "b", "k", "--scheme", "https", "--site", "example.com", "-o", "json")
	assert.JSONEq(t, `{"url":"https://b.example.com/k"}`, out)
}
