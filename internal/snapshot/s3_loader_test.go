package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"wareg/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves objects from memory.
type fakeS3 struct {
	objects map[string][]byte
	gotKeys []string
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.gotKeys = append(f.gotKeys, aws.ToString(params.Bucket)+"/"+key)

	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) ([]model.MenuItem, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) ([]model.MenuItem, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

func TestS3Loader_Load(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testMenus()))

	client := &fakeS3{objects: map[string][]byte{"snapshots/menus.json.gz": buf.Bytes()}}
	loader := NewS3LoaderWithClient(client, "wareg-menus", zerolog.Nop())

	menus, err := loader.Load(context.Background(), "snapshots/menus.json.gz")
	require.NoError(t, err)
	assert.Len(t, menus, 2)
	assert.Equal(t, []string{"wareg-menus/snapshots/menus.json.gz"}, client.gotKeys)
}

func TestS3Loader_Load_MissingObject(t *testing.T) {
	loader := NewS3LoaderWithClient(&fakeS3{}, "wareg-menus", zerolog.Nop())

	menus, err := loader.Load(context.Background(), "missing.json.gz")
	require.Error(t, err)
	assert.Nil(t, menus)
	assert.Contains(t, err.Error(), "bucket=wareg-menus")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			assert.Equal(t, "snapshots/menus.json.gz", filePath, "S3 key should have prefix")
			return testMenus()[:1], nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "snapshots/", true, zerolog.Nop())

	menus, err := fallback.Load(context.Background(), "menus.json.gz")
	require.NoError(t, err)
	assert.Len(t, menus, 1)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			assert.Equal(t, "menus.json.gz", filePath, "local file path should not have prefix")
			return testMenus(), nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "snapshots/", true, zerolog.Nop())

	menus, err := fallback.Load(context.Background(), "menus.json.gz")
	require.NoError(t, err)
	assert.Len(t, menus, 2)
}

func TestFallbackLoader_S3Disabled(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			t.Error("S3 loader should not be called when disabled")
			return nil, nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			return testMenus(), nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "snapshots/", false, zerolog.Nop())

	menus, err := fallback.Load(context.Background(), "menus.json.gz")
	require.NoError(t, err)
	assert.Len(t, menus, 2)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	failing := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.MenuItem, error) {
			return nil, errors.New("unavailable")
		},
	}

	fallback := NewFallbackLoader(failing, failing, "snapshots/", true, zerolog.Nop())

	_, err := fallback.Load(context.Background(), "menus.json.gz")
	assert.Error(t, err)
}
